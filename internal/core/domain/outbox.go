package domain

import "time"

// OutboxStatus tracks the delivery state of an outbox event.
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "PENDING"
	OutboxPublished OutboxStatus = "PUBLISHED"
	OutboxFailed    OutboxStatus = "FAILED"
)

// OutboxEvent is a notification written in the same atomic unit as the ledger
// mutation it describes, then relayed asynchronously to the message broker.
type OutboxEvent struct {
	EventID     string       `json:"eventID"` // Primary Key (UUID)
	Topic       string       `json:"topic"`
	Payload     string       `json:"payload"` // Serialized JSON
	Status      OutboxStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	LastError   string       `json:"lastError"`
	CreatedAt   time.Time    `json:"createdAt"`
	PublishedAt *time.Time   `json:"publishedAt"`
}
