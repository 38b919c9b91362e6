package services

import (
	"context"

	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/corebank/bankledger/internal/dto"
)

// AccountSvcFacade exposes account lifecycle operations.
type AccountSvcFacade interface {
	// CreateAccount opens a new account and publishes an account-created event
	// on a best-effort basis.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByCustomerID retrieves all accounts owned by a customer.
	GetAccountsByCustomerID(ctx context.Context, customerID string) ([]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}
