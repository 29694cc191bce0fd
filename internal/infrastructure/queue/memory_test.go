package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

func TestMemoryJobQueue_EnqueueDequeue(t *testing.T) {
	q := NewMemoryJobQueue(4)
	defer q.Close()

	job := &entity.WebhookJob{
		Provider:       provider.ProviderTypeStripe,
		Payload:        model.JSONB{"id": "evt_1"},
		WebhookEventID: "wh-1",
	}

	assert.NoError(t, q.Enqueue(context.Background(), job))

	got, err := q.Dequeue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestMemoryJobQueue_DequeueBlocksUntilCancel(t *testing.T) {
	q := NewMemoryJobQueue(4)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryJobQueue_RejectsNilAndClosed(t *testing.T) {
	q := NewMemoryJobQueue(1)

	assert.Error(t, q.Enqueue(context.Background(), nil))

	assert.NoError(t, q.Close())
	assert.Error(t, q.Enqueue(context.Background(), &entity.WebhookJob{WebhookEventID: "wh-1"}))
}

func TestMemoryJobQueue_CloseDuringEnqueueDoesNotPanic(t *testing.T) {
	q := NewMemoryJobQueue(64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				// Errors are expected once the queue closes; the send must
				// never reach a closed channel.
				_ = q.Enqueue(context.Background(), &entity.WebhookJob{WebhookEventID: "wh-race"})
			}
		}()
	}

	assert.NoError(t, q.Close())
	wg.Wait()

	assert.Error(t, q.Enqueue(context.Background(), &entity.WebhookJob{WebhookEventID: "wh-after"}))
}

func TestMemoryJobQueue_FullQueue(t *testing.T) {
	q := NewMemoryJobQueue(1)
	defer q.Close()

	assert.NoError(t, q.Enqueue(context.Background(), &entity.WebhookJob{WebhookEventID: "wh-1"}))
	assert.Error(t, q.Enqueue(context.Background(), &entity.WebhookJob{WebhookEventID: "wh-2"}))
}
