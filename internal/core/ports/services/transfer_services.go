package services

import (
	"context"

	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferSvcFacade orchestrates the movement of funds between two accounts.
type TransferSvcFacade interface {
	// Transfer validates the request, then executes the debit/credit pair, the
	// two transaction log entries and the outbox event as one atomic unit.
	// Preconditions are checked before any mutation, in this order: positive
	// amount, both accounts exist, sufficient source balance.
	Transfer(ctx context.Context, req domain.TransferRequest) error
}

// LedgerSvcFacade enforces balance invariants in isolation from persistence
// and messaging concerns.
type LedgerSvcFacade interface {
	// Fetch resolves an account by ID.
	Fetch(ctx context.Context, accountID string) (*domain.Account, error)

	// ApplyDelta returns a copy of the account with the signed delta applied to
	// its balance. The input account is not mutated; commit is the caller's
	// responsibility.
	ApplyDelta(account domain.Account, delta decimal.Decimal) (domain.Account, error)
}
