package services

import (
	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/corebank/bankledger/internal/idempotency"
	"github.com/corebank/bankledger/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// idemStore may be nil, in which case transfers skip idempotency reservation.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	publisher portssvc.EventPublisher,
	idemStore idempotency.Store,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger service is initialized first since the transfer service depends on it.
	container.Ledger = NewLedgerService(repos.AccountRepo)

	container.Transfer = NewTransferService(
		repos.TransactionRepo,
		container.Ledger,
		idemStore,
		TransferConfig{
			TransferEventsTopic: cfg.TransferEventsTopic,
			AllowSelfTransfer:   cfg.AllowSelfTransfer,
		},
	)

	container.Account = NewAccountService(repos.AccountRepo, publisher, cfg.AccountEventsTopic)
	container.Transaction = NewTransactionService(repos.TransactionRepo, cfg.TransactionEventsTopic)

	return container
}
