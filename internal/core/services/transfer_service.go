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
	"github.com/corebank/bankledger/internal/idempotency"
	"github.com/corebank/bankledger/internal/middleware"
)

// TransferConfig carries the tunable parts of the transfer coordinator.
type TransferConfig struct {
	// TransferEventsTopic is the topic the post-commit notification is
	// published on (via the outbox).
	TransferEventsTopic string

	// AllowSelfTransfer permits transfers where source and destination are the
	// same account. The debit and credit net to zero, so the balance is
	// unchanged and two offsetting log entries are still written.
	AllowSelfTransfer bool
}

// transferService coordinates a full transfer: validation, locking, mutation,
// logging and notification.
type transferService struct {
	ledger    portssvc.LedgerSvcFacade
	txnRepo   portsrepo.TransactionWriter
	idemStore idempotency.Store // nil disables idempotency-key dedup
	cfg       TransferConfig
}

// NewTransferService creates a new TransferService.
func NewTransferService(txnRepo portsrepo.TransactionWriter, ledger portssvc.LedgerSvcFacade, idemStore idempotency.Store, cfg TransferConfig) portssvc.TransferSvcFacade {
	return &transferService{
		ledger:    ledger,
		txnRepo:   txnRepo,
		idemStore: idemStore,
		cfg:       cfg,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer moves req.Amount from the source account to the destination
// account. Preconditions are checked before any mutation, in order: positive
// amount, both accounts exist, sufficient source balance. The debit, credit,
// both log entries and the outbox event commit or roll back as one unit.
func (s *transferService) Transfer(ctx context.Context, req domain.TransferRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be greater than zero, got %s", apperrors.ErrValidation, req.Amount.String())
	}
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return fmt.Errorf("%w: account IDs must not be blank", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID && !s.cfg.AllowSelfTransfer {
		return fmt.Errorf("%w: cannot transfer from account %s to itself", apperrors.ErrValidation, req.FromAccountID)
	}

	// Claim the idempotency key before touching account state. A duplicate key
	// means an identical request was already processed (or is in flight) within
	// the dedup window, so refuse rather than risk double-applying.
	reserved := false
	if s.idemStore != nil && req.IdempotencyKey != "" {
		ok, err := s.idemStore.Reserve(ctx, req.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("%w: idempotency store unavailable: %v", apperrors.ErrTransient, err)
		}
		if !ok {
			logger.Warn("Duplicate transfer refused", slog.String("idempotency_key", req.IdempotencyKey))
			return fmt.Errorf("%w: transfer with idempotency key %s already processed", apperrors.ErrDuplicate, req.IdempotencyKey)
		}
		reserved = true
	}
	// A failed transfer commits nothing, so the key must be freed for retries.
	fail := func(err error) error {
		if reserved {
			if relErr := s.idemStore.Release(ctx, req.IdempotencyKey); relErr != nil {
				logger.Error("Failed to release idempotency key", slog.String("idempotency_key", req.IdempotencyKey), slog.String("error", relErr.Error()))
			}
		}
		return err
	}

	fromAccount, err := s.ledger.Fetch(ctx, req.FromAccountID)
	if err != nil {
		return fail(err)
	}
	toAccount, err := s.ledger.Fetch(ctx, req.ToAccountID)
	if err != nil {
		return fail(err)
	}

	// Balance precondition before acquiring locks. The authoritative check is
	// repeated under the row lock inside the atomic unit.
	if _, err := s.ledger.ApplyDelta(*fromAccount, req.Amount.Neg()); err != nil {
		return fail(err)
	}

	now := time.Now().UTC()
	debit := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     fromAccount.AccountID,
		Type:          domain.Transfer,
		Amount:        req.Amount.Neg(),
		Timestamp:     now,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	credit := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     toAccount.AccountID,
		Type:          domain.Transfer,
		Amount:        req.Amount,
		Timestamp:     now,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	payload, err := json.Marshal(domain.TransferEvent{
		FromAccountID: fromAccount.AccountID,
		ToAccountID:   toAccount.AccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to serialize transfer event: %w", err))
	}
	event := domain.OutboxEvent{
		EventID:   uuid.NewString(),
		Topic:     s.cfg.TransferEventsTopic,
		Payload:   string(payload),
		Status:    domain.OutboxPending,
		CreatedAt: now,
	}

	if err := s.txnRepo.SaveTransfer(ctx, debit, credit, event); err != nil {
		logger.Error("Transfer failed",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID),
			slog.String("error", err.Error()))
		return fail(err)
	}

	logger.Info("Transfer successful",
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID),
		slog.String("amount", req.Amount.String()))
	return nil
}
