package dto

import (
	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the inbound payload for a transfer. The amount must
// be strictly positive; validation beyond binding happens in the service.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
}

// ToDomainTransferRequest converts the DTO plus an optional idempotency key
// (carried in a header, not the body) into the domain value.
func (r TransferRequest) ToDomainTransferRequest(idempotencyKey string) domain.TransferRequest {
	return domain.TransferRequest{
		FromAccountID:  r.FromAccountID,
		ToAccountID:    r.ToAccountID,
		Amount:         r.Amount,
		IdempotencyKey: idempotencyKey,
	}
}
