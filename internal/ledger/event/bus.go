package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus queues ledger events for the audit consumer. Publish never blocks: it
// runs inside ledger operations, so a full queue drops the event instead.
type Bus struct {
	mu      sync.RWMutex
	closed  bool
	ch      chan entity.LedgerEvent
	dropped atomic.Int64
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.LedgerEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.LedgerEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	default:
	}

	dropped := b.dropped.Add(1)
	slog.WarnContext(ctx, "audit queue full, ledger event dropped",
		"event_id", event.EventID,
		"tx_id", event.Transaction.ID,
		"dropped_total", dropped,
	)
	return ErrBusFull
}

// Dropped reports how many events were discarded because the queue was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) Subscribe() <-chan entity.LedgerEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
