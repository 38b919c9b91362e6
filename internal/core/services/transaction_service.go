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

// transactionService validates and persists externally supplied batches of
// transactions, and serves queries over the append-only log.
type transactionService struct {
	txnRepo portsrepo.TransactionRepositoryFacade
	topic   string
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, transactionEventsTopic string) portssvc.TransactionSvcFacade {
	return &transactionService{txnRepo: txnRepo, topic: transactionEventsTopic}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateInput checks one batch entry and returns a description of the first
// problem found, or ok.
func validateInput(in dto.TransactionInput) (domain.TransactionType, string) {
	if in.AccountID == "" {
		return "", "account ID must not be blank"
	}
	txType, ok := domain.TransactionType(in.Type).Normalize()
	if !ok {
		return "", fmt.Sprintf("type %q is not one of [DEPOSIT, WITHDRAWAL, TRANSFER]", in.Type)
	}
	if !in.Amount.IsPositive() {
		return "", fmt.Sprintf("amount must be greater than zero, got %s", in.Amount.String())
	}
	if in.Timestamp == nil || in.Timestamp.IsZero() {
		return "", "timestamp must be present"
	}
	return txType, ""
}

// RecordTransactions validates every entry first and persists the batch
// atomically. If any entry is invalid the whole batch is rejected and nothing
// is persisted.
func (s *transactionService) RecordTransactions(ctx context.Context, batch []dto.TransactionInput) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: batch must contain at least one transaction", apperrors.ErrValidation)
	}

	failures := make(map[int]string)
	types := make([]domain.TransactionType, len(batch))
	for i, in := range batch {
		txType, problem := validateInput(in)
		if problem != "" {
			failures[i] = problem
			continue
		}
		types[i] = txType
	}
	if len(failures) > 0 {
		logger.Warn("Transaction batch rejected", slog.Int("batch_size", len(batch)), slog.Int("invalid_entries", len(failures)))
		return nil, &apperrors.ValidationFailure{Failures: failures}
	}

	now := time.Now().UTC()
	transactions := make([]domain.Transaction, len(batch))
	ids := make([]string, len(batch))
	for i, in := range batch {
		id := in.TransactionID
		if id == "" {
			id = uuid.NewString()
		}
		// Sign convention: debits are negative in the log. Batch entries arrive
		// with positive amounts, so withdrawals are negated on the way in.
		amount := in.Amount
		if types[i] == domain.Withdrawal {
			amount = amount.Neg()
		}
		transactions[i] = domain.Transaction{
			TransactionID: id,
			AccountID:     in.AccountID,
			Type:          types[i],
			Amount:        amount,
			Timestamp:     in.Timestamp.UTC(),
			AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		ids[i] = id
	}

	payload, err := json.Marshal(domain.TransactionsRecordedEvent{TransactionIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize batch event: %w", err)
	}
	event := domain.OutboxEvent{
		EventID:   uuid.NewString(),
		Topic:     s.topic,
		Payload:   string(payload),
		Status:    domain.OutboxPending,
		CreatedAt: now,
	}

	if err := s.txnRepo.SaveTransactions(ctx, transactions, event); err != nil {
		logger.Error("Failed to record transaction batch", slog.Int("batch_size", len(batch)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record transactions: %w", err)
	}

	logger.Info("Transaction batch recorded", slog.Int("count", len(transactions)))
	return transactions, nil
}

// GetTransactionsByAccountID retrieves all transactions for an account.
func (s *transactionService) GetTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID must not be blank", apperrors.ErrValidation)
	}
	transactions, err := s.txnRepo.FindTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions for account %s: %w", accountID, err)
	}
	return transactions, nil
}

// GetFilteredTransactions retrieves transactions for an account within [from, to].
func (s *transactionService) GetFilteredTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID must not be blank", apperrors.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s precedes range start %s", apperrors.ErrValidation, to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	transactions, err := s.txnRepo.FindTransactionsByAccountIDAndRange(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve filtered transactions for account %s: %w", accountID, err)
	}
	return transactions, nil
}

// ListTransactionsByAccountID retrieves a paginated page of transactions.
func (s *transactionService) ListTransactionsByAccountID(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	transactions, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}
