package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/corebank/bankledger/internal/handlers"
	"github.com/corebank/bankledger/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req domain.TransferRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Test Suite ---
type TransferHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockTransferService *MockTransferService
}

func (suite *TransferHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterCustomValidators())

	suite.router = gin.New()
	suite.mockTransferService = new(MockTransferService)

	services := &portssvc.ServiceContainer{
		Transfer: suite.mockTransferService,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *TransferHandlerTestSuite) postTransfer(body string, idempotencyKey string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransferHandlerTestSuite) TestTransfer_Success() {
	suite.mockTransferService.On("Transfer",
		mock.Anything,
		mock.MatchedBy(func(req domain.TransferRequest) bool {
			return req.FromAccountID == "acct-1" &&
				req.ToAccountID == "acct-2" &&
				req.Amount.String() == "25.5" &&
				req.IdempotencyKey == "key-123"
		}),
	).Return(nil).Once()

	body := `{"fromAccountID":"acct-1","toAccountID":"acct-2","amount":"25.50"}`
	w := suite.postTransfer(body, "key-123")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestTransfer_MissingIdempotencyKeyStillAccepted() {
	suite.mockTransferService.On("Transfer",
		mock.Anything,
		mock.MatchedBy(func(req domain.TransferRequest) bool {
			return req.IdempotencyKey == ""
		}),
	).Return(nil).Once()

	body := `{"fromAccountID":"acct-1","toAccountID":"acct-2","amount":"10"}`
	w := suite.postTransfer(body, "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestTransfer_NonPositiveAmountRejectedAtBinding() {
	body := `{"fromAccountID":"acct-1","toAccountID":"acct-2","amount":"-5"}`
	w := suite.postTransfer(body, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *TransferHandlerTestSuite) TestTransfer_MalformedBody() {
	w := suite.postTransfer(`{"fromAccountID":`, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "Transfer")
}

func (suite *TransferHandlerTestSuite) TestTransfer_ServiceErrorMapping() {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad transfer", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: account missing", apperrors.ErrNotFound), http.StatusNotFound},
		{"insufficient funds", fmt.Errorf("%w: balance too low", apperrors.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{"duplicate key", fmt.Errorf("%w: key seen before", apperrors.ErrDuplicate), http.StatusConflict},
		{"transient", fmt.Errorf("%w: try again", apperrors.ErrTransient), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.mockTransferService.On("Transfer", mock.Anything, mock.Anything).
				Return(tc.serviceErr).Once()

			body := `{"fromAccountID":"acct-1","toAccountID":"acct-2","amount":"10"}`
			w := suite.postTransfer(body, "")

			suite.Equal(tc.wantStatus, w.Code)
			suite.mockTransferService.AssertExpectations(suite.T())
		})
	}
}

// --- Run Test Suite ---
func TestTransferHandler(t *testing.T) {
	suite.Run(t, new(TransferHandlerTestSuite))
}
