package dto

import (
	"time"

	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionInput is one candidate entry in a RecordTransactions batch.
// TransactionID is optional; a UUID is assigned when blank.
type TransactionInput struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Timestamp     *time.Time      `json:"timestamp" binding:"required"`
}

// RecordTransactionsRequest wraps the batch payload.
type RecordTransactionsRequest struct {
	Transactions []TransactionInput `json:"transactions" binding:"required,min=1,dive"`
}

// TransactionResponse defines the data returned for a transaction log entry.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	AccountID     string                 `json:"accountID"`
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ListTransactionsParams holds pagination parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		Timestamp:     txn.Timestamp,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
