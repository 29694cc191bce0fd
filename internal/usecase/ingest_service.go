package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
	"github.com/fanlift/webhook-service/internal/domain/queue"
	"github.com/fanlift/webhook-service/internal/domain/repository"
)

// IngestService durably records inbound provider events and dispatches the
// first processing attempt. Redelivery of a known (provider, eventID) pair is
// a no-op signaled by isNew=false; it never enqueues a second job.
type IngestService struct {
	repo   repository.WebhookEventRepository
	queue  queue.JobQueue
	logger *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(repo repository.WebhookEventRepository, jobQueue queue.JobQueue, logger *zap.Logger) *IngestService {
	return &IngestService{
		repo:   repo,
		queue:  jobQueue,
		logger: logger,
	}
}

// Ingest records the event if unseen and enqueues a processing job for new
// events. Callers must treat isNew=false as "already have it, do not
// reprocess."
func (s *IngestService) Ingest(ctx context.Context, providerType provider.ProviderType, eventID, eventType string, payload model.JSONB) (*model.WebhookEvent, bool, error) {
	event, isNew, err := s.repo.RecordIfNew(ctx, providerType, eventID, eventType, payload)
	if err != nil {
		return nil, false, err
	}

	if !isNew {
		s.logger.Info("Duplicate webhook event delivery ignored",
			zap.String("provider", string(providerType)),
			zap.String("event_id", eventID),
			zap.String("status", string(event.Status)))
		return event, false, nil
	}

	job := &entity.WebhookJob{
		Provider:       event.Provider,
		Payload:        event.Payload,
		WebhookEventID: event.ID,
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("Failed to enqueue webhook job for new event",
			zap.String("id", event.ID),
			zap.String("provider", string(providerType)),
			zap.Error(err))
		return event, true, fmt.Errorf("failed to enqueue webhook job: %w", err)
	}

	s.logger.Info("Webhook event recorded",
		zap.String("id", event.ID),
		zap.String("provider", string(providerType)),
		zap.String("event_id", eventID),
		zap.String("event_type", eventType))

	return event, true, nil
}
