// Command sweep runs one retry sweep cycle and exits. It is the ops
// counterpart of the periodic sweep inside the server, for draining a backlog
// on demand.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/config"
	"github.com/fanlift/webhook-service/internal/infrastructure/database"
	"github.com/fanlift/webhook-service/internal/infrastructure/queue"
	"github.com/fanlift/webhook-service/internal/usecase"
	"github.com/fanlift/webhook-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, zapLogger)

	repos := database.NewRepositories(db, zapLogger)

	queueKey := cfg.Service.Redis.QueueKey
	if queueKey == "" {
		queueKey = "webhook:jobs"
	}
	jobQueue, err := queue.NewRedisJobQueue(
		cfg.Service.Redis.Addr,
		cfg.Service.Redis.Password,
		cfg.Service.Redis.DB,
		queueKey,
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to job queue", zap.Error(err))
	}
	defer jobQueue.Close()

	policy, err := cfg.Service.Retry.Policy()
	if err != nil {
		zapLogger.Fatal("Invalid retry policy", zap.Error(err))
	}
	processingTimeout, err := cfg.Service.Sweep.ProcessingTimeoutDuration()
	if err != nil {
		zapLogger.Fatal("Invalid processing timeout", zap.Error(err))
	}

	sweepService := usecase.NewSweepService(repos.WebhookEvent, jobQueue, policy, usecase.SweepConfig{
		MaxRetries:        cfg.Service.Retry.MaxRetries,
		ScanWindow:        cfg.Service.Sweep.ScanWindow,
		BatchSize:         cfg.Service.Sweep.BatchSize,
		ProcessingTimeout: processingTimeout,
	}, zapLogger)

	summary, err := sweepService.Sweep(context.Background())
	if err != nil {
		zapLogger.Fatal("Sweep failed", zap.Error(err))
	}

	zapLogger.Info("Sweep finished",
		zap.Int("scanned", summary.Scanned),
		zap.Int("due", summary.Due),
		zap.Int("requeued", summary.Requeued),
		zap.Int("dead_lettered", summary.DeadLettered),
		zap.Int("reclaimed", summary.Reclaimed),
		zap.Int("skipped", summary.Skipped))
}
