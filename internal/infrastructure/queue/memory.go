package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/queue"
)

// memoryJobQueue is a channel-backed queue for tests and single-process runs
type memoryJobQueue struct {
	jobs   chan *entity.WebhookJob
	closed bool
	mu     sync.Mutex
}

// NewMemoryJobQueue creates an in-memory job queue with the given capacity
func NewMemoryJobQueue(capacity int) queue.JobQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &memoryJobQueue{
		jobs: make(chan *entity.WebhookJob, capacity),
	}
}

// Enqueue pushes a job or fails when the queue is full or closed
func (q *memoryJobQueue) Enqueue(ctx context.Context, job *entity.WebhookJob) error {
	if job == nil {
		return errors.New("nil webhook job")
	}

	// The lock is held across the send so Close cannot close the channel
	// between the closed check and the send. The send never blocks; the
	// default branch reports a full queue.
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errors.New("job queue is closed")
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("job queue is full")
	}
}

// Dequeue blocks until a job is available or the context is canceled
func (q *memoryJobQueue) Dequeue(ctx context.Context) (*entity.WebhookJob, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return nil, errors.New("job queue is closed")
		}
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the queue; pending jobs remain readable until drained
func (q *memoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	return nil
}
