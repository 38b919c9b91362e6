package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/corebank/bankledger/internal/dto"
	"github.com/corebank/bankledger/internal/middleware"
)

// accountService handles account lifecycle operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	publisher   portssvc.EventPublisher
	topic       string
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, publisher portssvc.EventPublisher, accountEventsTopic string) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		publisher:   publisher,
		topic:       accountEventsTopic,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account. The account-created event is published
// best-effort after the save: a publish failure is returned as a non-fatal
// warning alongside the created account, never as a rollback.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer ID must not be blank", apperrors.ErrValidation)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative, got %s", apperrors.ErrValidation, req.InitialBalance.String())
	}

	now := time.Now().UTC()
	accountID := req.AccountID
	if accountID == "" {
		accountID = uuid.NewString()
	}
	account := domain.Account{
		AccountID:   accountID,
		CustomerID:  req.CustomerID,
		Balance:     req.InitialBalance,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	logger.Info("Account created", slog.String("account_id", accountID), slog.String("customer_id", req.CustomerID))

	payload, err := json.Marshal(domain.AccountEvent{
		AccountID:  account.AccountID,
		CustomerID: account.CustomerID,
		Balance:    account.Balance,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, s.topic, string(payload))
	}
	if err != nil {
		logger.Warn("Account creation event not published", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return &account, fmt.Errorf("%w: %v", apperrors.ErrPublishFailure, err)
	}

	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountsByCustomerID retrieves all accounts owned by a customer.
func (s *accountService) GetAccountsByCustomerID(ctx context.Context, customerID string) ([]domain.Account, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer ID must not be blank", apperrors.ErrValidation)
	}
	accounts, err := s.accountRepo.FindAccountsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts for customer %s: %w", customerID, err)
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
