package repositories

import (
	"context"
	"time"

	"github.com/corebank/bankledger/internal/core/domain"
)

// OutboxRepository defines operations on the outbox event table. Events are
// written inside the same transaction as the ledger mutation they describe
// (see TransactionWriter) and drained by the relay.
type OutboxRepository interface {
	// ListPendingEvents returns up to limit events awaiting publication, oldest
	// first.
	ListPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error)

	// MarkEventPublished records a successful publication.
	MarkEventPublished(ctx context.Context, eventID string, publishedAt time.Time) error

	// MarkEventFailed increments the attempt counter and records the failure.
	MarkEventFailed(ctx context.Context, eventID string, lastError string) error
}
