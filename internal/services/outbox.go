package services

import (
	"context"
	"time"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

const (
	outboxBatchSize   = 50
	outboxBaseBackoff = 30 * time.Second
)

type outboxOWStore interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.OutboxEvent, error)
	MarkDelivered(ctx context.Context, eventID string, attempts int) error
	Reschedule(ctx context.Context, eventID string, attempts int, lastError string, nextAttemptAt time.Time) error
	MarkDead(ctx context.Context, eventID string, attempts int, lastError string) error
}

type dispatcherOW interface {
	Deliver(ctx context.Context, bankID, eventType string, payload map[string]any) (*dto.DeliveryResult, error)
}

// outboxWorker drains the durable webhook queue: deliver, back off
// exponentially on failure, dead-letter after maxAttempts. Events enter the
// queue inside the transaction that produced them, so a crash between
// commit and delivery only delays the webhook, never loses it.
type outboxWorker struct {
	outbox      outboxOWStore
	dispatcher  dispatcherOW
	interval    time.Duration
	maxAttempts int
	clockNow    func() time.Time
}

func NewOutboxWorker(outbox outboxOWStore, dispatcher dispatcherOW, interval time.Duration, maxAttempts int) *outboxWorker {
	return &outboxWorker{
		outbox:      outbox,
		dispatcher:  dispatcher,
		interval:    interval,
		maxAttempts: maxAttempts,
		clockNow:    time.Now,
	}
}

// Run polls until the context is cancelled.
func (w *outboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				log := logger.FromContext(ctx)
				log.Error("outbox pass failed", "error", err)
			}
		}
	}
}

// RunOnce processes one batch of due events and reports how many it
// handled.
func (w *outboxWorker) RunOnce(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	events, err := w.outbox.ListDue(ctx, w.clockNow(), outboxBatchSize)
	if err != nil {
		return 0, err
	}

	for _, e := range events {
		attempts := e.Attempts + 1

		result, err := w.dispatcher.Deliver(ctx, e.BankID, e.EventType, e.Payload)
		if err != nil {
			result = &dto.DeliveryResult{Error: err.Error()}
		}

		switch {
		// a skipped event (bank disabled or unconfigured since enqueue)
		// is done, not retryable
		case result.Delivered, result.Skipped:
			if err := w.outbox.MarkDelivered(ctx, e.EventID, attempts); err != nil {
				log.Error("failed to mark outbox event delivered", "event_id", e.EventID, "error", err)
			}
		case attempts >= w.maxAttempts:
			if err := w.outbox.MarkDead(ctx, e.EventID, attempts, result.Error); err != nil {
				log.Error("failed to dead-letter outbox event", "event_id", e.EventID, "error", err)
			}
			log.Warn("outbox event dead-lettered",
				"event_id", e.EventID,
				"bank_id", e.BankID,
				"attempts", attempts,
				"last_error", result.Error)
		default:
			next := w.clockNow().Add(backoff(attempts))
			if err := w.outbox.Reschedule(ctx, e.EventID, attempts, result.Error, next); err != nil {
				log.Error("failed to reschedule outbox event", "event_id", e.EventID, "error", err)
			}
		}
	}

	return len(events), nil
}

// backoff doubles per attempt: 30s, 1m, 2m, 4m, ...
func backoff(attempts int) time.Duration {
	d := outboxBaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
	}
	return d
}
