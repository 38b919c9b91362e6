package models

import "time"

// OutboxEvent represents a row in the outbox_events table.
type OutboxEvent struct {
	EventID     string     `db:"event_id"`
	Topic       string     `db:"topic"`
	Payload     string     `db:"payload"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	LastError   string     `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	PublishedAt *time.Time `db:"published_at"`
}
