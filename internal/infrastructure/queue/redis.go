package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/queue"
)

// redisJobQueue carries webhook jobs on a Redis list. LPUSH/BRPOP gives
// at-least-once delivery to a pool of competing consumers.
type redisJobQueue struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisJobQueue connects to Redis and returns a job queue backed by the
// given list key
func NewRedisJobQueue(addr, password string, db int, key string, logger *zap.Logger) (queue.JobQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisJobQueue{
		client: client,
		key:    key,
		logger: logger,
	}, nil
}

// Enqueue pushes a job onto the list
func (q *redisJobQueue) Enqueue(ctx context.Context, job *entity.WebhookJob) error {
	if job == nil {
		return errors.New("nil webhook job")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook job: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		q.logger.Error("Failed to enqueue webhook job",
			zap.String("webhook_event_id", job.WebhookEventID),
			zap.Error(err))
		return fmt.Errorf("failed to enqueue webhook job: %w", err)
	}

	return nil
}

// Dequeue blocks until a job is available or the context is canceled
func (q *redisJobQueue) Dequeue(ctx context.Context) (*entity.WebhookJob, error) {
	result, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to dequeue webhook job: %w", err)
	}

	// BRPOP returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length: %d", len(result))
	}

	var job entity.WebhookJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Error("Failed to decode webhook job", zap.Error(err))
		return nil, fmt.Errorf("failed to decode webhook job: %w", err)
	}

	return &job, nil
}

// Close closes the underlying Redis client
func (q *redisJobQueue) Close() error {
	return q.client.Close()
}
