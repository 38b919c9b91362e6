package services

import "context"

// EventPublisher is the outbound notification port. Publication is
// fire-and-forget: at-least-once delivery is assumed downstream, and a returned
// error is a best-effort signal only. Callers must never undo a committed
// ledger mutation because a publish failed.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload string) error
}

// ServiceContainer holds all service facades for injection into handlers.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Ledger      LedgerSvcFacade
	Transfer    TransferSvcFacade
	Transaction TransactionSvcFacade
}
