package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
)

// OutboxRelay drains pending outbox events and publishes them to the broker.
// Because the events were written in the same transaction as the ledger
// mutation, a transfer notification is never lost: a publish failure leaves
// the row pending and it is retried on the next cycle.
type OutboxRelay struct {
	outboxRepo portsrepo.OutboxRepository
	publisher  portssvc.EventPublisher
	logger     *slog.Logger
	interval   time.Duration
	batchSize  int
}

// NewOutboxRelay creates a relay. interval <= 0 defaults to one second,
// batchSize <= 0 defaults to 50.
func NewOutboxRelay(outboxRepo portsrepo.OutboxRepository, publisher portssvc.EventPublisher, logger *slog.Logger, interval time.Duration, batchSize int) *OutboxRelay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxRelay{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
		interval:   interval,
		batchSize:  batchSize,
	}
}

// Run drains the outbox on a fixed interval until the context is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce processes one batch of pending events. It returns the number of
// events successfully published.
func (r *OutboxRelay) DrainOnce(ctx context.Context) int {
	events, err := r.outboxRepo.ListPendingEvents(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("Failed to list pending outbox events", slog.String("error", err.Error()))
		return 0
	}

	published := 0
	for _, event := range events {
		if err := r.publisher.Publish(ctx, event.Topic, event.Payload); err != nil {
			r.logger.Warn("Failed to publish outbox event",
				slog.String("event_id", event.EventID),
				slog.String("topic", event.Topic),
				slog.Int("attempts", event.Attempts+1),
				slog.String("error", err.Error()))
			if markErr := r.outboxRepo.MarkEventFailed(ctx, event.EventID, err.Error()); markErr != nil {
				r.logger.Error("Failed to mark outbox event failed", slog.String("event_id", event.EventID), slog.String("error", markErr.Error()))
			}
			continue
		}
		if err := r.outboxRepo.MarkEventPublished(ctx, event.EventID, time.Now().UTC()); err != nil {
			// The event will be retried and delivered again: at-least-once.
			r.logger.Error("Failed to mark outbox event published", slog.String("event_id", event.EventID), slog.String("error", err.Error()))
			continue
		}
		published++
	}

	if published > 0 {
		r.logger.Debug("Outbox drained", slog.Int("published", published), slog.Int("pending_seen", len(events)))
	}
	return published
}
