package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	domainErrors "github.com/fanlift/webhook-service/internal/domain/errors"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/queue"
	"github.com/fanlift/webhook-service/internal/domain/repository"
)

// OverrideService lets an operator force one event to be retried immediately,
// bypassing backoff timing and the retry budget. Resurrecting a dead-lettered
// event is deliberate: the operator takes responsibility for the extra
// attempts. The terminal-success rule still holds.
type OverrideService struct {
	repo   repository.WebhookEventRepository
	queue  queue.JobQueue
	logger *zap.Logger
}

// NewOverrideService creates a new manual override service
func NewOverrideService(repo repository.WebhookEventRepository, jobQueue queue.JobQueue, logger *zap.Logger) *OverrideService {
	return &OverrideService{
		repo:   repo,
		queue:  jobQueue,
		logger: logger,
	}
}

// RetryOne forces an immediate reprocessing of the event with the given id.
// Unlike the sweep, failures here propagate to the caller: this is an
// interactive operator action.
func (s *OverrideService) RetryOne(ctx context.Context, id string) (*model.WebhookEvent, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domainErrors.ErrEventNotFound
	}
	// dead_letter is terminal for the pipeline, but the override is its one
	// exit; only processed refuses resurrection outright.
	if event.Status.Terminal() && event.Status != model.WebhookStatusDeadLetter {
		return nil, domainErrors.ErrEventAlreadyProcessed
	}
	if len(event.Payload) == 0 {
		return nil, domainErrors.ErrEventPayloadEmpty
	}

	applied, err := s.repo.Transition(ctx, event.ID,
		[]model.WebhookStatus{model.WebhookStatusFailed, model.WebhookStatusPendingRetry, model.WebhookStatusDeadLetter},
		model.WebhookStatusPendingRetry,
		map[string]interface{}{"retry_count": event.RetryCount + 1})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("webhook event %s is not in a retryable state: %w", id, domainErrors.ErrEventNotRetryable)
	}

	event.Status = model.WebhookStatusPendingRetry
	event.RetryCount++

	job := &entity.WebhookJob{
		Provider:       event.Provider,
		Payload:        event.Payload,
		WebhookEventID: event.ID,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("Failed to enqueue manual retry job",
			zap.String("id", event.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to enqueue manual retry job: %w", err)
	}

	s.logger.Info("Manual retry dispatched",
		zap.String("id", event.ID),
		zap.String("provider", string(event.Provider)),
		zap.Int("retry_count", event.RetryCount))

	return event, nil
}
