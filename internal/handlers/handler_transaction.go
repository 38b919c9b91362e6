package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corebank/bankledger/internal/apperrors"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/corebank/bankledger/internal/dto"
	"github.com/corebank/bankledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to the transaction log.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	rg.POST("/transactions", h.recordTransactions)
	rg.GET("/accounts/:accountID/transactions", h.getTransactions)
}

func (h *transactionHandler) recordTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to record transactions", slog.Int("count", len(req.Transactions)))

	recorded, err := h.transactionService.RecordTransactions(c.Request.Context(), req.Transactions)
	if err != nil {
		var vf *apperrors.ValidationFailure
		switch {
		case errors.As(err, &vf):
			logger.Warn("Batch rejected with invalid entries", slog.Int("invalid_count", len(vf.Failures)))
			c.JSON(http.StatusBadRequest, gin.H{"error": vf.Error(), "failures": vf.Failures})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unknown account in batch", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrTransient):
			logger.Error("Transient failure recording transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch could not be persisted, please retry"})
		default:
			logger.Error("Failed to record transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transactions"})
		}
		return
	}

	logger.Info("Transactions recorded successfully", slog.Int("count", len(recorded)))
	c.JSON(http.StatusCreated, gin.H{"transactions": dto.ToTransactionResponses(recorded)})
}

// getTransactions serves both the time-range filter and the paginated listing.
// When from/to are present the range query applies; otherwise pagination.
func (h *transactionHandler) getTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	logger = logger.With(slog.String("account_id", accountID))

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr != "" || toStr != "" {
		h.getTransactionsInRange(c, logger, accountID, fromStr, toStr)
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.transactionService.ListTransactionsByAccountID(c.Request.Context(), accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *transactionHandler) getTransactionsInRange(c *gin.Context, logger *slog.Logger, accountID, fromStr, toStr string) {
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp, expected RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp, expected RFC3339"})
		return
	}

	txns, err := h.transactionService.GetFilteredTransactions(c.Request.Context(), accountID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid transaction range", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to query transactions in range", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": dto.ToTransactionResponses(txns)})
}
