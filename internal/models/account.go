package models

import (
	"github.com/shopspring/decimal"
)

// Account represents an account row as stored in the database.
type Account struct {
	AccountID  string          `db:"account_id"`
	CustomerID string          `db:"customer_id"`
	Balance    decimal.Decimal `db:"balance"`
	AuditFields
}
