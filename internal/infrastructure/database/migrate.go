package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fanlift/webhook-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	if err := db.AutoMigrate(&model.WebhookEvent{}); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes that GORM doesn't handle
// automatically
func createCustomIndexes(db *gorm.DB) error {
	// Narrow index backing the retry sweep's candidate scan
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_retryable ON webhook_events (created_at) WHERE status IN ('failed', 'pending_retry')`).Error; err != nil {
		return err
	}

	// Narrow index backing the dead-letter listing
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_dead_letter ON webhook_events (created_at DESC) WHERE status = 'dead_letter'`).Error; err != nil {
		return err
	}

	return nil
}
