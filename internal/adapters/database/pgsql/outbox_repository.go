package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	"github.com/corebank/bankledger/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOutboxRepository struct {
	pool *pgxpool.Pool
}

// newPgxOutboxRepository creates a new repository for outbox events. Rows are
// inserted by the transaction repository inside the business transaction; this
// repository only serves the relay.
func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepository {
	return &PgxOutboxRepository{pool: pool}
}

var _ portsrepo.OutboxRepository = (*PgxOutboxRepository)(nil)

func toDomainOutboxEvent(m models.OutboxEvent) domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:     m.EventID,
		Topic:       m.Topic,
		Payload:     m.Payload,
		Status:      domain.OutboxStatus(m.Status),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
	}
}

// ListPendingEvents returns up to limit unpublished events, oldest first.
// FAILED events are retried together with PENDING ones.
func (r *PgxOutboxRepository) ListPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT event_id, topic, payload, status, attempts, last_error, created_at, published_at
		FROM outbox_events
		WHERE status IN ('PENDING', 'FAILED')
		ORDER BY created_at, event_id
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outbox events: %w", err)
	}
	defer rows.Close()

	events := []domain.OutboxEvent{}
	for rows.Next() {
		var m models.OutboxEvent
		if err := rows.Scan(
			&m.EventID,
			&m.Topic,
			&m.Payload,
			&m.Status,
			&m.Attempts,
			&m.LastError,
			&m.CreatedAt,
			&m.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event row: %w", err)
		}
		events = append(events, toDomainOutboxEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox event rows: %w", err)
	}

	return events, nil
}

// MarkEventPublished records a successful publication.
func (r *PgxOutboxRepository) MarkEventPublished(ctx context.Context, eventID string, publishedAt time.Time) error {
	query := `
		UPDATE outbox_events
		SET status = 'PUBLISHED', published_at = $2, last_error = ''
		WHERE event_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, eventID, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s published: %w", eventID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: outbox event %s", apperrors.ErrNotFound, eventID)
	}
	return nil
}

// MarkEventFailed increments the attempt counter and records the failure.
func (r *PgxOutboxRepository) MarkEventFailed(ctx context.Context, eventID string, lastError string) error {
	query := `
		UPDATE outbox_events
		SET status = 'FAILED', attempts = attempts + 1, last_error = $2
		WHERE event_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, eventID, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s failed: %w", eventID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: outbox event %s", apperrors.ErrNotFound, eventID)
	}
	return nil
}
