package services_test

import (
	"context"
	"testing"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	"github.com/corebank/bankledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestFetch_Success() {
	ctx := context.Background()
	testID := uuid.NewString()
	expectedAccount := &domain.Account{
		AccountID:  testID,
		CustomerID: uuid.NewString(),
		Balance:    decimal.NewFromInt(100),
	}

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(expectedAccount, nil).Once()

	account, err := suite.service.Fetch(ctx, testID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(expectedAccount, account)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestFetch_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.Fetch(ctx, testID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	// The missing account is named in the error
	suite.Contains(err.Error(), testID)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestFetch_RepoError() {
	ctx := context.Background()
	testID := uuid.NewString()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, expectedErr).Once()

	account, err := suite.service.Fetch(ctx, testID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, expectedErr)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestApplyDelta_Credit() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		Balance:   decimal.NewFromInt(100),
	}

	updated, err := suite.service.ApplyDelta(account, decimal.NewFromInt(50))

	suite.Require().NoError(err)
	suite.True(updated.Balance.Equal(decimal.NewFromInt(150)))
	// The input account is not mutated
	suite.True(account.Balance.Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerServiceTestSuite) TestApplyDelta_DebitWithinBalance() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		Balance:   decimal.NewFromInt(100),
	}

	updated, err := suite.service.ApplyDelta(account, decimal.NewFromInt(-100))

	suite.Require().NoError(err)
	suite.True(updated.Balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestApplyDelta_InsufficientFunds() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		Balance:   decimal.NewFromInt(99),
	}

	_, err := suite.service.ApplyDelta(account, decimal.NewFromInt(-100))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	// The rejected account keeps its original balance
	suite.True(account.Balance.Equal(decimal.NewFromInt(99)))
}

func (suite *LedgerServiceTestSuite) TestApplyDelta_RoundTripRestoresBalance() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		Balance:   decimal.RequireFromString("100.50"),
	}
	delta := decimal.RequireFromString("25.25")

	debited, err := suite.service.ApplyDelta(account, delta.Neg())
	suite.Require().NoError(err)

	restored, err := suite.service.ApplyDelta(debited, delta)
	suite.Require().NoError(err)
	suite.True(restored.Balance.Equal(account.Balance))
}

// --- Run Test Suite ---

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
