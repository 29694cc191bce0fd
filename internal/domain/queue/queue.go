package queue

import (
	"context"

	"github.com/fanlift/webhook-service/internal/domain/entity"
)

// JobQueue is an at-least-once delivery channel carrying webhook jobs to
// worker processes. Dequeue blocks until a job is available or the context is
// canceled.
type JobQueue interface {
	Enqueue(ctx context.Context, job *entity.WebhookJob) error
	Dequeue(ctx context.Context) (*entity.WebhookJob, error)
	Close() error
}
