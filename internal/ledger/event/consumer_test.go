package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
	"github.com/shopspring/decimal"
)

type handlerFunc func(ctx context.Context, event entity.LedgerEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.LedgerEvent) error {
	return h(ctx, event)
}

func TestAuditConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.LedgerEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewAuditConsumer(bus, handler, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.LedgerEvent{EventID: 42, Transaction: entity.Transaction{ID: 1, AccountID: 1}}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestAuditConsumerGivesUpAfterMaxRetries(t *testing.T) {
	bus := NewBus(1)

	var attempts int32
	handler := handlerFunc(func(ctx context.Context, event entity.LedgerEvent) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("always failing")
	})

	consumer := NewAuditConsumer(bus, handler, ConsumerConfig{Workers: 1, MaxRetries: 1, BaseBackoff: time.Millisecond})
	consumer.Start()

	if err := bus.Publish(context.Background(), entity.LedgerEvent{EventID: 7}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close()

	if err := bus.Publish(context.Background(), entity.LedgerEvent{EventID: 1}); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishDropsWhenFull(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.LedgerEvent{EventID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- bus.Publish(context.Background(), entity.LedgerEvent{EventID: 2}) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrBusFull) {
			t.Fatalf("expected ErrBusFull, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full bus")
	}

	if got := bus.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}
	if got := (<-bus.Subscribe()).EventID; got != 1 {
		t.Fatalf("queued event = %d, want 1", got)
	}
}

type flakyWriter struct {
	mu       sync.Mutex
	failures int
	calls    int
	buf      bytes.Buffer
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls++
	if w.calls <= w.failures {
		return 0, errors.New("no space left on device")
	}
	return w.buf.Write(p)
}

func TestAuditLogWritesTransferLine(t *testing.T) {
	var buf bytes.Buffer

	err := NewAuditLog(&buf).Handle(context.Background(), entity.LedgerEvent{
		EventID: 99,
		Transaction: entity.Transaction{
			ID:           5,
			AccountID:    1,
			Amount:       decimal.RequireFromString("12.50"),
			Type:         entity.TxTypeTransferOut,
			Counterparty: 2,
		},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode audit line %q: %v", buf.String(), err)
	}
	if line["event_id"] != float64(99) || line["type"] != "TransferOut" || line["amount"] != "12.5" {
		t.Fatalf("unexpected audit line: %v", line)
	}
	if line["counterparty_id"] != float64(2) {
		t.Fatalf("counterparty_id = %v, want 2", line["counterparty_id"])
	}
}

func TestAuditConsumerRetriesFailedWrite(t *testing.T) {
	w := &flakyWriter{failures: 2}
	bus := NewBus(4)
	consumer := NewAuditConsumer(bus, NewAuditLog(w), ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.LedgerEvent{EventID: 11, Transaction: entity.Transaction{ID: 3, Type: entity.TxTypeDeposit}}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if w.calls != 3 {
		t.Fatalf("write attempts = %d, want 3", w.calls)
	}
	if got := strings.Count(w.buf.String(), "\n"); got != 1 {
		t.Fatalf("audit lines = %d, want 1\n%s", got, w.buf.String())
	}
}

func TestOpenAuditFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	for id := int64(1); id <= 2; id++ {
		f, err := OpenAuditFile(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := NewAuditLog(f).Handle(context.Background(), entity.LedgerEvent{EventID: id}); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Fatalf("audit lines = %d, want 2", got)
	}
}

func TestAuditLogRejectsMissingEventID(t *testing.T) {
	err := NewAuditLog(io.Discard).Handle(context.Background(), entity.LedgerEvent{})
	if err == nil || !strings.Contains(err.Error(), "missing event id") {
		t.Fatalf("expected missing event id error, got %v", err)
	}
}
