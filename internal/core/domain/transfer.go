package domain

import (
	"github.com/shopspring/decimal"
)

// TransferRequest describes a single requested movement of funds between two
// accounts. It is a value object and is never persisted.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	// IdempotencyKey is an optional caller-supplied token used to recognise a
	// duplicate retry of the same logical transfer. Empty means no dedup.
	IdempotencyKey string
}

// TransferEvent is the payload published after a successful transfer.
type TransferEvent struct {
	FromAccountID string          `json:"fromAccountID"`
	ToAccountID   string          `json:"toAccountID"`
	Amount        decimal.Decimal `json:"amount"`
}

// AccountEvent is the payload published after an account is opened.
type AccountEvent struct {
	AccountID  string          `json:"accountID"`
	CustomerID string          `json:"customerID"`
	Balance    decimal.Decimal `json:"balance"`
}

// TransactionsRecordedEvent is the payload published after a batch of
// transactions is persisted.
type TransactionsRecordedEvent struct {
	TransactionIDs []string `json:"transactionIDs"`
}
