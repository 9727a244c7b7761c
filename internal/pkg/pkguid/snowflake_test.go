package pkguid

import "testing"

func TestGenerateRandomNodeIDRange(t *testing.T) {
	id, err := generateRandomNodeID()
	if err != nil {
		t.Fatalf("generateRandomNodeID: %v", err)
	}
	if id < 0 || id > maxNodeID {
		t.Fatalf("expected id within 0..%d, got %d", maxNodeID, id)
	}
}

func TestSnowflakeGenerateIncreasing(t *testing.T) {
	gen, err := NewSnowflake(-1)
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}
	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected increasing ids, got %d after %d", next, prev)
		}
		prev = next
	}
}

func TestSnowflakeRejectsOutOfRangeNode(t *testing.T) {
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatal("expected error for node id out of range")
	}
}
