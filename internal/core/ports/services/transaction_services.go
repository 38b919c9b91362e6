package services

import (
	"context"
	"time"

	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/corebank/bankledger/internal/dto"
)

// TransactionSvcFacade exposes bulk transaction recording and log queries.
type TransactionSvcFacade interface {
	// RecordTransactions validates and persists a batch atomically. If any
	// entry is invalid the whole batch is rejected and nothing is persisted.
	RecordTransactions(ctx context.Context, batch []dto.TransactionInput) ([]domain.Transaction, error)

	// GetTransactionsByAccountID retrieves all transactions for an account.
	GetTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// GetFilteredTransactions retrieves transactions for an account within
	// [from, to].
	GetFilteredTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated page of transactions.
	ListTransactionsByAccountID(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
