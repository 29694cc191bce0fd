package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

func TestIngestService_NewEventIsRecordedAndEnqueued(t *testing.T) {
	payload := model.JSONB{"id": "evt_100", "type": "charge.succeeded"}
	stored := &model.WebhookEvent{
		ID:        "wh-100",
		Provider:  provider.ProviderTypeStripe,
		EventID:   "evt_100",
		EventType: "charge.succeeded",
		Payload:   payload,
		Status:    model.WebhookStatusReceived,
	}

	mockRepo := new(MockWebhookEventRepository)
	mockQueue := new(MockJobQueue)

	mockRepo.On("RecordIfNew", mock.Anything, provider.ProviderTypeStripe,
		"evt_100", "charge.succeeded", payload).
		Return(stored, true, nil)
	mockQueue.On("Enqueue", mock.Anything, &entity.WebhookJob{
		Provider:       provider.ProviderTypeStripe,
		Payload:        payload,
		WebhookEventID: "wh-100",
	}).Return(nil)

	service := NewIngestService(mockRepo, mockQueue, zap.NewNop())

	event, isNew, err := service.Ingest(context.Background(),
		provider.ProviderTypeStripe, "evt_100", "charge.succeeded", payload)

	assert.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "wh-100", event.ID)
	mockRepo.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestIngestService_DuplicateDeliveryIsNotReprocessed(t *testing.T) {
	payload := model.JSONB{"id": "evt_100", "type": "charge.succeeded"}
	stored := &model.WebhookEvent{
		ID:       "wh-100",
		Provider: provider.ProviderTypeStripe,
		EventID:  "evt_100",
		Status:   model.WebhookStatusProcessed,
	}

	mockRepo := new(MockWebhookEventRepository)
	mockQueue := new(MockJobQueue)

	mockRepo.On("RecordIfNew", mock.Anything, provider.ProviderTypeStripe,
		"evt_100", "charge.succeeded", payload).
		Return(stored, false, nil)

	service := NewIngestService(mockRepo, mockQueue, zap.NewNop())

	event, isNew, err := service.Ingest(context.Background(),
		provider.ProviderTypeStripe, "evt_100", "charge.succeeded", payload)

	assert.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "wh-100", event.ID)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestIngestService_EnqueueFailurePropagates(t *testing.T) {
	payload := model.JSONB{"id": "evt_101"}
	stored := &model.WebhookEvent{
		ID:       "wh-101",
		Provider: provider.ProviderTypeToss,
		EventID:  "evt_101",
		Payload:  payload,
		Status:   model.WebhookStatusReceived,
	}

	mockRepo := new(MockWebhookEventRepository)
	mockQueue := new(MockJobQueue)

	mockRepo.On("RecordIfNew", mock.Anything, provider.ProviderTypeToss,
		"evt_101", "PAYMENT_STATUS_CHANGED", payload).
		Return(stored, true, nil)
	mockQueue.On("Enqueue", mock.Anything, mock.Anything).
		Return(assert.AnError)

	service := NewIngestService(mockRepo, mockQueue, zap.NewNop())

	_, _, err := service.Ingest(context.Background(),
		provider.ProviderTypeToss, "evt_101", "PAYMENT_STATUS_CHANGED", payload)

	assert.Error(t, err)
}
