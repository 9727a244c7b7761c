package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shandysiswandi/gobank/internal/ledger/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.LedgerEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// AuditConsumer drains the bus with a fixed worker pool. Each event is handled
// at most once per EventID; failed handling is retried with doubling backoff.
type AuditConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
}

func NewAuditConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *AuditConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &AuditConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

func (c *AuditConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to drain.
func (c *AuditConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AuditConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *AuditConsumer) processEvent(event entity.LedgerEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate ledger event", "event_id", event.EventID, "tx_id", event.Transaction.ID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to audit ledger event after retries", "event_id", event.EventID, "tx_id", event.Transaction.ID, "error", err)
			return
		}

		sleepBackoff(backoff)
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
}

type auditRecord struct {
	EventID      int64         `json:"event_id"`
	TxID         int64         `json:"tx_id"`
	AccountID    int64         `json:"account_id"`
	Type         entity.TxType `json:"type"`
	Amount       string        `json:"amount"`
	Counterparty int64         `json:"counterparty_id,omitempty"`
}

// AuditLog appends one JSON line per ledger event to its writer. A failed
// write is returned so the consumer retries it.
type AuditLog struct {
	mu sync.Mutex
	w  io.Writer
}

func NewAuditLog(w io.Writer) *AuditLog {
	return &AuditLog{w: w}
}

// OpenAuditFile opens path for appending audit lines.
func OpenAuditFile(path string) (*os.File, error) {
	//nolint:gosec // path comes from trusted configuration
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func (a *AuditLog) Handle(ctx context.Context, event entity.LedgerEvent) error {
	if event.EventID == 0 {
		return errors.New("missing event id")
	}

	tx := event.Transaction
	line, err := json.Marshal(auditRecord{
		EventID:      event.EventID,
		TxID:         tx.ID,
		AccountID:    tx.AccountID,
		Type:         tx.Type,
		Amount:       tx.Amount.String(),
		Counterparty: tx.Counterparty,
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}

	slog.DebugContext(ctx, "ledger event audited", "event_id", event.EventID, "tx_id", tx.ID)
	return nil
}
