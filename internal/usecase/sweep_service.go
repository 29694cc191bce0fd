package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/queue"
	"github.com/fanlift/webhook-service/internal/domain/repository"
)

// SweepConfig bounds a single sweep cycle. ScanWindow caps the candidate
// query, BatchSize caps how many events one cycle may actually dispatch; the
// two-stage cap keeps the query cheap while throttling queue pressure
// independently of backlog size.
type SweepConfig struct {
	MaxRetries int
	ScanWindow int
	BatchSize  int
	// ProcessingTimeout, when positive, reclaims processing rows older than
	// the threshold back to failed so a crashed worker cannot strand them.
	ProcessingTimeout time.Duration
}

// SweepService finds events due for another attempt under the backoff policy
// and drives each to its next state: re-enqueued with an incremented
// retry_count, or dead-lettered once the retry budget is exhausted. All
// transitions are conditional; losing a race with a worker or a manual
// override is skipped silently.
type SweepService struct {
	repo   repository.WebhookEventRepository
	queue  queue.JobQueue
	policy entity.RetryPolicy
	config SweepConfig
	logger *zap.Logger
}

// NewSweepService creates a new retry sweep service
func NewSweepService(repo repository.WebhookEventRepository, jobQueue queue.JobQueue, policy entity.RetryPolicy, config SweepConfig, logger *zap.Logger) *SweepService {
	if config.ScanWindow <= 0 {
		config.ScanWindow = 200
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	return &SweepService{
		repo:   repo,
		queue:  jobQueue,
		policy: policy,
		config: config,
		logger: logger,
	}
}

// Run executes a sweep every interval until the context is canceled
func (s *SweepService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Retry sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one sweep cycle and reports what it did
func (s *SweepService) Sweep(ctx context.Context) (*entity.SweepSummary, error) {
	summary := &entity.SweepSummary{}
	now := time.Now()

	if s.config.ProcessingTimeout > 0 {
		s.reclaimStale(ctx, now, summary)
	}

	candidates, err := s.repo.FindRetryCandidates(ctx, s.config.MaxRetries, s.config.ScanWindow)
	if err != nil {
		return nil, err
	}
	summary.Scanned = len(candidates)

	// Backoff eligibility is filtered here rather than in SQL: the schedule is
	// arbitrary configuration, and the scan window already bounds the cost.
	due := make([]*model.WebhookEvent, 0, len(candidates))
	for _, event := range candidates {
		dueAt := event.NextAttemptAfter().Add(s.policy.Delay(event.RetryCount))
		if !now.Before(dueAt) {
			due = append(due, event)
		}
	}
	summary.Due = len(due)

	if len(due) > s.config.BatchSize {
		due = due[:s.config.BatchSize]
	}

	for _, event := range due {
		s.dispatch(ctx, event, summary)
	}

	if summary.Due > 0 || summary.Reclaimed > 0 {
		s.logger.Info("Retry sweep completed",
			zap.Int("scanned", summary.Scanned),
			zap.Int("due", summary.Due),
			zap.Int("requeued", summary.Requeued),
			zap.Int("dead_lettered", summary.DeadLettered),
			zap.Int("reclaimed", summary.Reclaimed),
			zap.Int("skipped", summary.Skipped))
	}

	return summary, nil
}

// dispatch drives one due event to its next state
func (s *SweepService) dispatch(ctx context.Context, event *model.WebhookEvent, summary *entity.SweepSummary) {
	retryable := []model.WebhookStatus{model.WebhookStatusFailed, model.WebhookStatusPendingRetry}

	if event.RetryCount+1 >= s.config.MaxRetries {
		lastError := ""
		if event.LastError != nil {
			lastError = *event.LastError
		}
		reason := "Exceeded max retries: " + lastError

		applied, err := s.repo.Transition(ctx, event.ID, retryable,
			model.WebhookStatusDeadLetter,
			map[string]interface{}{"last_error": &reason})
		if err != nil {
			s.logger.Error("Failed to dead-letter webhook event",
				zap.String("id", event.ID), zap.Error(err))
			return
		}
		if !applied {
			summary.Skipped++
			return
		}

		summary.DeadLettered++
		s.logger.Warn("Webhook event dead-lettered",
			zap.String("id", event.ID),
			zap.String("provider", string(event.Provider)),
			zap.Int("retry_count", event.RetryCount),
			zap.String("last_error", lastError))
		return
	}

	applied, err := s.repo.Transition(ctx, event.ID, retryable,
		model.WebhookStatusPendingRetry,
		map[string]interface{}{"retry_count": event.RetryCount + 1})
	if err != nil {
		s.logger.Error("Failed to mark webhook event for retry",
			zap.String("id", event.ID), zap.Error(err))
		return
	}
	if !applied {
		// Another process already transitioned the row; expected under
		// concurrent sweeps and manual overrides.
		summary.Skipped++
		return
	}

	job := &entity.WebhookJob{
		Provider:       event.Provider,
		Payload:        event.Payload,
		WebhookEventID: event.ID,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		// The event stays pending_retry with its incremented count and will be
		// picked up by a later sweep.
		s.logger.Error("Failed to enqueue retry job",
			zap.String("id", event.ID), zap.Error(err))
		return
	}

	summary.Requeued++
}

// reclaimStale converts processing rows older than the timeout back to failed
// so the sweep can retry work stranded by a crashed worker.
func (s *SweepService) reclaimStale(ctx context.Context, now time.Time, summary *entity.SweepSummary) {
	cutoff := now.Add(-s.config.ProcessingTimeout)

	stale, err := s.repo.FindStaleProcessing(ctx, cutoff, s.config.ScanWindow)
	if err != nil {
		s.logger.Error("Failed to scan for stale processing events", zap.Error(err))
		return
	}

	for _, event := range stale {
		reason := "processing timed out"
		applied, err := s.repo.Transition(ctx, event.ID,
			[]model.WebhookStatus{model.WebhookStatusProcessing},
			model.WebhookStatusFailed,
			map[string]interface{}{
				"processed_at": &now,
				"last_error":   &reason,
			})
		if err != nil {
			s.logger.Error("Failed to reclaim stale webhook event",
				zap.String("id", event.ID), zap.Error(err))
			continue
		}
		if applied {
			summary.Reclaimed++
			s.logger.Warn("Reclaimed stale processing webhook event",
				zap.String("id", event.ID),
				zap.String("provider", string(event.Provider)))
		}
	}
}
