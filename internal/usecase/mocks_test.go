package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) RecordIfNew(ctx context.Context, providerType provider.ProviderType, eventID, eventType string, payload model.JSONB) (*model.WebhookEvent, bool, error) {
	args := m.Called(ctx, providerType, eventID, eventType, payload)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.WebhookEvent), args.Bool(1), args.Error(2)
}

func (m *MockWebhookEventRepository) Transition(ctx context.Context, id string, from []model.WebhookStatus, to model.WebhookStatus, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, to, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEventRepository) GetEvent(ctx context.Context, id string) (*model.WebhookEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) FindRetryCandidates(ctx context.Context, maxRetries, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) CountFailedByProvider(ctx context.Context) ([]entity.ProviderFailureCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProviderFailureCount), args.Error(1)
}

func (m *MockWebhookEventRepository) ListDeadLetters(ctx context.Context, offset, limit int) ([]*model.WebhookEvent, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Get(1).(int64), args.Error(2)
}

// MockJobQueue is a mock implementation of JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job *entity.WebhookJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobQueue) Dequeue(ctx context.Context) (*entity.WebhookJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookJob), args.Error(1)
}

func (m *MockJobQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}
