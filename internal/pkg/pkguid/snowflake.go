package pkguid

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/bwmarrin/snowflake"
)

const maxNodeID = 1<<10 - 1

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator for nodeID.
// A negative nodeID picks a random node in 0..1023.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		random, err := generateRandomNodeID()
		if err != nil {
			return nil, err
		}
		nodeID = random
	}

	snowflake.Epoch = 1767200400000 // Thu Jan 01 2026 00:00:00.000 WIB

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
