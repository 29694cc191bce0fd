package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
	"github.com/fanlift/webhook-service/internal/domain/queue"
	"github.com/fanlift/webhook-service/internal/domain/repository"
)

// Worker consumes webhook jobs and drives each event through its processing
// attempt. Ownership of an event is claimed with a conditional transition to
// processing; a claim that does not apply means another consumer owns the
// event or it reached a terminal state, and the job is abandoned with no side
// effects.
//
// Handler failures never propagate past the worker: they are converted into a
// failed transition for the sweep to pick up. The worker does not touch
// retry_count; increments belong to the sweep and manual override.
type Worker struct {
	repo        repository.WebhookEventRepository
	queue       queue.JobQueue
	registry    *provider.Registry
	logger      *zap.Logger
	concurrency int

	mu       sync.Mutex
	breakers map[provider.ProviderType]*gobreaker.CircuitBreaker
}

// NewWorker creates a worker pool over the given queue and handler registry
func NewWorker(repo repository.WebhookEventRepository, jobQueue queue.JobQueue, registry *provider.Registry, concurrency int, logger *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		repo:        repo,
		queue:       jobQueue,
		registry:    registry,
		logger:      logger,
		concurrency: concurrency,
		breakers:    make(map[provider.ProviderType]*gobreaker.CircuitBreaker),
	}
}

// Run starts the consumer goroutines and blocks until the context is canceled
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.consume(ctx)
		}()
	}
	wg.Wait()
}

func (w *Worker) consume(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.logger.Error("Failed to dequeue webhook job", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		w.Process(ctx, job)
	}
}

// Process runs a single job through claim, handler execution, and outcome
// recording. Exactly one of the processed/failed transitions is attempted
// after a successful claim.
func (w *Worker) Process(ctx context.Context, job *entity.WebhookJob) {
	if job == nil || job.WebhookEventID == "" {
		w.logger.Warn("Discarding malformed webhook job")
		return
	}

	claimed, err := w.repo.Transition(ctx, job.WebhookEventID,
		[]model.WebhookStatus{model.WebhookStatusReceived, model.WebhookStatusPendingRetry},
		model.WebhookStatusProcessing, nil)
	if err != nil {
		w.logger.Error("Failed to claim webhook event",
			zap.String("id", job.WebhookEventID),
			zap.Error(err))
		return
	}
	if !claimed {
		// Another consumer owns the event or it reached a terminal state.
		w.logger.Debug("Abandoning webhook job, event not claimable",
			zap.String("id", job.WebhookEventID))
		return
	}

	handlerErr := w.execute(ctx, job)

	now := time.Now()
	if handlerErr != nil {
		errMsg := handlerErr.Error()
		applied, err := w.repo.Transition(ctx, job.WebhookEventID,
			[]model.WebhookStatus{model.WebhookStatusProcessing},
			model.WebhookStatusFailed,
			map[string]interface{}{
				"processed_at": &now,
				"last_error":   &errMsg,
			})
		if err != nil {
			w.logger.Error("Failed to record webhook failure",
				zap.String("id", job.WebhookEventID),
				zap.Error(err))
			return
		}
		if !applied {
			w.logger.Warn("Webhook event left processing before failure was recorded",
				zap.String("id", job.WebhookEventID))
			return
		}
		w.logger.Warn("Webhook event processing failed",
			zap.String("id", job.WebhookEventID),
			zap.String("provider", string(job.Provider)),
			zap.Error(handlerErr))
		return
	}

	applied, err := w.repo.Transition(ctx, job.WebhookEventID,
		[]model.WebhookStatus{model.WebhookStatusProcessing},
		model.WebhookStatusProcessed,
		map[string]interface{}{
			"processed_at": &now,
			"last_error":   nil,
		})
	if err != nil {
		w.logger.Error("Failed to record webhook success",
			zap.String("id", job.WebhookEventID),
			zap.Error(err))
		return
	}
	if !applied {
		w.logger.Warn("Webhook event left processing before success was recorded",
			zap.String("id", job.WebhookEventID))
		return
	}

	w.logger.Info("Webhook event processed",
		zap.String("id", job.WebhookEventID),
		zap.String("provider", string(job.Provider)))
}

// execute dispatches to the provider handler through a per-provider circuit
// breaker; an open breaker surfaces as an ordinary attempt failure.
func (w *Worker) execute(ctx context.Context, job *entity.WebhookJob) error {
	handler, err := w.registry.Handler(job.Provider)
	if err != nil {
		return err
	}

	_, err = w.breaker(job.Provider).Execute(func() (interface{}, error) {
		return nil, handler.Handle(ctx, job.WebhookEventID, job.Payload)
	})
	return err
}

func (w *Worker) breaker(providerType provider.ProviderType) *gobreaker.CircuitBreaker {
	w.mu.Lock()
	defer w.mu.Unlock()

	cb, ok := w.breakers[providerType]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "webhook-handler-" + string(providerType),
		})
		w.breakers[providerType] = cb
	}
	return cb
}
