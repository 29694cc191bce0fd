package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/config"
	"github.com/fanlift/webhook-service/internal/domain/provider"
	"github.com/fanlift/webhook-service/internal/infrastructure/database"
	httpServer "github.com/fanlift/webhook-service/internal/infrastructure/http"
	stripeHandler "github.com/fanlift/webhook-service/internal/infrastructure/provider/stripe"
	tossHandler "github.com/fanlift/webhook-service/internal/infrastructure/provider/toss"
	"github.com/fanlift/webhook-service/internal/infrastructure/queue"
	"github.com/fanlift/webhook-service/internal/usecase"
	"github.com/fanlift/webhook-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Service.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Initialize job queue
	jobQueue, err := queue.NewRedisJobQueue(
		cfg.Service.Redis.Addr,
		cfg.Service.Redis.Password,
		cfg.Service.Redis.DB,
		queueKey(cfg),
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to job queue", zap.Error(err))
	}
	defer jobQueue.Close()

	// Register provider handlers
	registry := provider.NewRegistry()
	registry.Register(provider.ProviderTypeStripe, stripeHandler.NewHandler(zapLogger))
	registry.Register(provider.ProviderTypeToss, tossHandler.NewHandler(zapLogger))

	// Retry policy and sweep bounds are static configuration
	policy, err := cfg.Service.Retry.Policy()
	if err != nil {
		zapLogger.Fatal("Invalid retry policy", zap.Error(err))
	}
	sweepInterval, err := cfg.Service.Sweep.IntervalDuration()
	if err != nil {
		zapLogger.Fatal("Invalid sweep interval", zap.Error(err))
	}
	processingTimeout, err := cfg.Service.Sweep.ProcessingTimeoutDuration()
	if err != nil {
		zapLogger.Fatal("Invalid processing timeout", zap.Error(err))
	}

	// Initialize services
	ingestService := usecase.NewIngestService(repos.WebhookEvent, jobQueue, zapLogger)
	statsService := usecase.NewStatsService(repos.WebhookEvent, zapLogger)
	overrideService := usecase.NewOverrideService(repos.WebhookEvent, jobQueue, zapLogger)
	sweepService := usecase.NewSweepService(repos.WebhookEvent, jobQueue, policy, usecase.SweepConfig{
		MaxRetries:        cfg.Service.Retry.MaxRetries,
		ScanWindow:        cfg.Service.Sweep.ScanWindow,
		BatchSize:         cfg.Service.Sweep.BatchSize,
		ProcessingTimeout: processingTimeout,
	}, zapLogger)
	worker := usecase.NewWorker(repos.WebhookEvent, jobQueue, registry, cfg.Service.Worker.Concurrency, zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker pool and periodic sweep
	go worker.Run(ctx)
	go sweepService.Run(ctx, sweepInterval)

	// Start HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, ingestService, statsService, overrideService, sweepService)
	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down...")
	cancel()

	if err := httpSrv.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}

func queueKey(cfg *config.Config) string {
	if cfg.Service.Redis.QueueKey != "" {
		return cfg.Service.Redis.QueueKey
	}
	return "webhook:jobs"
}
