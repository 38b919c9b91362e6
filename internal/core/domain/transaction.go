package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger transaction.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// legacyWithdrawal is the short spelling some upstream producers still send.
// The stored canonical value is always WITHDRAWAL.
const legacyWithdrawal TransactionType = "WITHDRAW"

// Normalize maps legacy spellings onto the canonical transaction types.
// It returns the canonical type and whether the input was recognised.
func (t TransactionType) Normalize() (TransactionType, bool) {
	switch t {
	case Deposit, Withdrawal, Transfer:
		return t, true
	case legacyWithdrawal:
		return Withdrawal, true
	default:
		return t, false
	}
}

// Transaction is a single immutable entry in the ledger's append-only log.
// Amount carries sign: positive for credits, negative for debits. A transfer
// always produces exactly two entries whose amounts sum to zero.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // Signed; precise decimal type
	Timestamp     time.Time       `json:"timestamp"`
	AuditFields
}
