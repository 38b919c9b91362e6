package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/corebank/bankledger/internal/core/domain"
	"github.com/corebank/bankledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type OutboxRelayTestSuite struct {
	suite.Suite
	mockRepo      *MockOutboxRepository
	mockPublisher *MockEventPublisher
	relay         *services.OutboxRelay
}

func (suite *OutboxRelayTestSuite) SetupTest() {
	suite.mockRepo = new(MockOutboxRepository)
	suite.mockPublisher = new(MockEventPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.relay = services.NewOutboxRelay(suite.mockRepo, suite.mockPublisher, logger, time.Millisecond, 10)
}

func pendingEvent(topic string) domain.OutboxEvent {
	return domain.OutboxEvent{
		EventID:   uuid.NewString(),
		Topic:     topic,
		Payload:   `{"x":1}`,
		Status:    domain.OutboxPending,
		CreatedAt: time.Now().UTC(),
	}
}

// --- Test Cases ---

func (suite *OutboxRelayTestSuite) TestDrainOnce_PublishesAndMarks() {
	ctx := context.Background()
	events := []domain.OutboxEvent{pendingEvent("transfer-events"), pendingEvent("transaction-events")}

	suite.mockRepo.On("ListPendingEvents", ctx, 10).Return(events, nil).Once()
	for _, e := range events {
		suite.mockPublisher.On("Publish", ctx, e.Topic, e.Payload).Return(nil).Once()
		suite.mockRepo.On("MarkEventPublished", ctx, e.EventID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	}

	published := suite.relay.DrainOnce(ctx)

	suite.Equal(2, published)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

// A publish failure marks the event failed and moves on; the next cycle
// retries it.
func (suite *OutboxRelayTestSuite) TestDrainOnce_PublishFailureMarksFailed() {
	ctx := context.Background()
	broken := pendingEvent("transfer-events")
	healthy := pendingEvent("transfer-events")

	suite.mockRepo.On("ListPendingEvents", ctx, 10).Return([]domain.OutboxEvent{broken, healthy}, nil).Once()
	suite.mockPublisher.On("Publish", ctx, broken.Topic, broken.Payload).Return(assert.AnError).Once()
	suite.mockRepo.On("MarkEventFailed", ctx, broken.EventID, assert.AnError.Error()).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, healthy.Topic, healthy.Payload).Return(nil).Once()
	suite.mockRepo.On("MarkEventPublished", ctx, healthy.EventID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	published := suite.relay.DrainOnce(ctx)

	suite.Equal(1, published)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *OutboxRelayTestSuite) TestDrainOnce_ListError() {
	ctx := context.Background()

	suite.mockRepo.On("ListPendingEvents", ctx, 10).Return(nil, assert.AnError).Once()

	published := suite.relay.DrainOnce(ctx)

	suite.Equal(0, published)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OutboxRelayTestSuite) TestDrainOnce_Empty() {
	ctx := context.Background()

	suite.mockRepo.On("ListPendingEvents", ctx, 10).Return([]domain.OutboxEvent{}, nil).Once()

	published := suite.relay.DrainOnce(ctx)

	suite.Equal(0, published)
}

func (suite *OutboxRelayTestSuite) TestRun_StopsOnContextCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	suite.mockRepo.On("ListPendingEvents", mock.Anything, 10).Return([]domain.OutboxEvent{}, nil).Maybe()

	done := make(chan struct{})
	go func() {
		suite.relay.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		suite.Fail("relay did not stop after context cancellation")
	}
}

// --- Run Test Suite ---

func TestOutboxRelay(t *testing.T) {
	suite.Run(t, new(OutboxRelayTestSuite))
}
