package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ledgerService enforces the balance invariants. It performs no I/O beyond
// account lookup; atomicity and commit are the caller's responsibility.
type ledgerService struct {
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{accountRepo: accountRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Fetch resolves an account by ID.
func (s *ledgerService) Fetch(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
	}
	return account, nil
}

// ApplyDelta returns a copy of the account with the signed delta applied.
// The balance must never go negative, not even transiently.
func (s *ledgerService) ApplyDelta(account domain.Account, delta decimal.Decimal) (domain.Account, error) {
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return domain.Account{}, fmt.Errorf("%w: account %s balance %s cannot absorb delta %s",
			apperrors.ErrInsufficientFunds, account.AccountID, account.Balance.String(), delta.String())
	}
	account.Balance = newBalance
	return account, nil
}
