package repositories

import (
	"context"
	"time"

	"github.com/corebank/bankledger/internal/core/domain"
)

// TransactionReader defines read operations over the append-only transaction log.
type TransactionReader interface {
	// FindTransactionsByAccountID retrieves all transactions for an account.
	FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// FindTransactionsByAccountIDAndRange retrieves transactions for an account
	// whose timestamps fall within [from, to].
	FindTransactionsByAccountIDAndRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated page of transactions for
	// an account using token-based pagination. It returns the transactions and a
	// token for the next page.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations over the transaction log.
// Entries are append-only: there is no update or delete.
type TransactionWriter interface {
	// SaveTransfer executes the atomic unit of a transfer: it locks both
	// accounts in canonical ID order, re-checks the source balance under the
	// lock, applies the debit and credit, appends both transaction entries and
	// the outbox event, then commits. On any failure nothing is persisted.
	SaveTransfer(ctx context.Context, debit domain.Transaction, credit domain.Transaction, event domain.OutboxEvent) error

	// SaveTransactions persists a validated batch and its outbox event
	// atomically (all entries or none).
	SaveTransactions(ctx context.Context, transactions []domain.Transaction, event domain.OutboxEvent) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
