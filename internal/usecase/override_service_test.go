package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domainErrors "github.com/fanlift/webhook-service/internal/domain/errors"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

var overrideSources = []model.WebhookStatus{
	model.WebhookStatusFailed,
	model.WebhookStatusPendingRetry,
	model.WebhookStatusDeadLetter,
}

func deadLetterEvent(id string, retryCount int) *model.WebhookEvent {
	errMsg := "Exceeded max retries: handler exploded"
	processedAt := time.Now().Add(-time.Hour)
	return &model.WebhookEvent{
		ID:          id,
		Provider:    provider.ProviderTypeStripe,
		EventID:     "evt_" + id,
		EventType:   "charge.succeeded",
		Payload:     model.JSONB{"id": "evt_" + id},
		Status:      model.WebhookStatusDeadLetter,
		RetryCount:  retryCount,
		LastError:   &errMsg,
		CreatedAt:   processedAt.Add(-time.Hour),
		ProcessedAt: &processedAt,
	}
}

func TestOverrideService_ResurrectsDeadLetteredEvent(t *testing.T) {
	// Operators may deliberately retry past the budget; backoff timing and
	// maxRetries are both bypassed.
	event := deadLetterEvent("wh-dl", 5)

	mockRepo := new(MockWebhookEventRepository)
	mockQueue := new(MockJobQueue)

	mockRepo.On("GetEvent", mock.Anything, "wh-dl").Return(event, nil)
	mockRepo.On("Transition", mock.Anything, "wh-dl", overrideSources,
		model.WebhookStatusPendingRetry,
		map[string]interface{}{"retry_count": 6}).
		Return(true, nil)
	mockQueue.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	service := NewOverrideService(mockRepo, mockQueue, zap.NewNop())

	updated, err := service.RetryOne(context.Background(), "wh-dl")

	assert.NoError(t, err)
	assert.Equal(t, model.WebhookStatusPendingRetry, updated.Status)
	assert.Equal(t, 6, updated.RetryCount)
	mockRepo.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestOverrideService_Failures(t *testing.T) {
	processed := deadLetterEvent("wh-done", 0)
	processed.Status = model.WebhookStatusProcessed

	noPayload := deadLetterEvent("wh-empty", 1)
	noPayload.Status = model.WebhookStatusFailed
	noPayload.Payload = nil

	tests := []struct {
		name          string
		id            string
		mockSetup     func(*MockWebhookEventRepository)
		expectedError error
	}{
		{
			name: "unknown id",
			id:   "wh-missing",
			mockSetup: func(repo *MockWebhookEventRepository) {
				repo.On("GetEvent", mock.Anything, "wh-missing").Return(nil, nil)
			},
			expectedError: domainErrors.ErrEventNotFound,
		},
		{
			name: "already processed",
			id:   "wh-done",
			mockSetup: func(repo *MockWebhookEventRepository) {
				repo.On("GetEvent", mock.Anything, "wh-done").Return(processed, nil)
			},
			expectedError: domainErrors.ErrEventAlreadyProcessed,
		},
		{
			name: "missing payload",
			id:   "wh-empty",
			mockSetup: func(repo *MockWebhookEventRepository) {
				repo.On("GetEvent", mock.Anything, "wh-empty").Return(noPayload, nil)
			},
			expectedError: domainErrors.ErrEventPayloadEmpty,
		},
		{
			name: "event moved to an unretryable state",
			id:   "wh-race",
			mockSetup: func(repo *MockWebhookEventRepository) {
				racing := deadLetterEvent("wh-race", 2)
				racing.Status = model.WebhookStatusFailed
				repo.On("GetEvent", mock.Anything, "wh-race").Return(racing, nil)
				repo.On("Transition", mock.Anything, "wh-race", overrideSources,
					model.WebhookStatusPendingRetry, mock.Anything).
					Return(false, nil)
			},
			expectedError: domainErrors.ErrEventNotRetryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockWebhookEventRepository)
			mockQueue := new(MockJobQueue)
			tt.mockSetup(mockRepo)

			service := NewOverrideService(mockRepo, mockQueue, zap.NewNop())

			_, err := service.RetryOne(context.Background(), tt.id)

			assert.ErrorIs(t, err, tt.expectedError)
			mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		})
	}
}
