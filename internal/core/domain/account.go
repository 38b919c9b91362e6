package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer account within the core ledger domain.
// This is the primary representation used by services.
//
// Transactions relate to an account by AccountID only; the account never holds
// its transaction history in memory.
type Account struct {
	AccountID  string          `json:"accountID"`  // Primary Key (UUID)
	CustomerID string          `json:"customerID"` // Owner back-reference (opaque, not resolved here)
	Balance    decimal.Decimal `json:"balance"`    // Non-negative at all observable times
	AuditFields
}
