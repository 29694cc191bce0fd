package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
	domainRepo "github.com/fanlift/webhook-service/internal/domain/repository"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event repository backed by GORM
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

// RecordIfNew inserts a new event unless the (provider, event_id) pair already
// exists. The unique index backs an ON CONFLICT DO NOTHING insert; a zero
// RowsAffected means the event was already recorded and the stored row is
// returned instead.
func (r *webhookEventRepository) RecordIfNew(ctx context.Context, providerType provider.ProviderType, eventID, eventType string, payload model.JSONB) (*model.WebhookEvent, bool, error) {
	event := &model.WebhookEvent{
		ID:        uuid.NewString(),
		Provider:  providerType,
		EventID:   eventID,
		EventType: eventType,
		Payload:   payload,
		Status:    model.WebhookStatusReceived,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event)

	if result.Error != nil {
		r.logger.Error("Failed to record webhook event",
			zap.String("provider", string(providerType)),
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(result.Error))
		return nil, false, fmt.Errorf("failed to record webhook event: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing model.WebhookEvent
		err := r.db.WithContext(ctx).
			Where("provider = ? AND event_id = ?", providerType, eventID).
			First(&existing).Error
		if err != nil {
			return nil, false, fmt.Errorf("failed to load existing webhook event: %w", err)
		}
		return &existing, false, nil
	}

	return event, true, nil
}

// Transition applies a conditional status update. The WHERE clause on the
// current status is what serializes concurrent transitions; RowsAffected == 0
// means another process already moved the row.
func (r *webhookEventRepository) Transition(ctx context.Context, id string, from []model.WebhookStatus, to model.WebhookStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{
		"status": to,
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to transition webhook event",
			zap.String("id", id),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to transition webhook event: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetEvent retrieves a webhook event by its internal id
func (r *webhookEventRepository) GetEvent(ctx context.Context, id string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook event",
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

// FindRetryCandidates returns events that may be due for another attempt. The
// query deliberately over-fetches a bounded window; backoff eligibility is
// cheap to evaluate in memory but expensive to express in SQL across
// arbitrary schedules.
func (r *webhookEventRepository) FindRetryCandidates(ctx context.Context, maxRetries, limit int) ([]*model.WebhookEvent, error) {
	var events []*model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("status IN ? AND retry_count < ?",
			[]model.WebhookStatus{model.WebhookStatusFailed, model.WebhookStatusPendingRetry},
			maxRetries).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		r.logger.Error("Failed to find retry candidates", zap.Error(err))
		return nil, fmt.Errorf("failed to find retry candidates: %w", err)
	}

	return events, nil
}

// FindStaleProcessing returns processing rows whose last activity predates the
// cutoff, so a crashed worker's events can be reclaimed.
func (r *webhookEventRepository) FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*model.WebhookEvent, error) {
	var events []*model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("status = ? AND COALESCE(processed_at, created_at) < ?",
			model.WebhookStatusProcessing, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		r.logger.Error("Failed to find stale processing events", zap.Error(err))
		return nil, fmt.Errorf("failed to find stale processing events: %w", err)
	}

	return events, nil
}

// CountFailedByProvider counts failed events grouped by provider
func (r *webhookEventRepository) CountFailedByProvider(ctx context.Context) ([]entity.ProviderFailureCount, error) {
	var counts []entity.ProviderFailureCount

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Select("provider, COUNT(*) AS count").
		Where("status = ?", model.WebhookStatusFailed).
		Group("provider").
		Scan(&counts).Error

	if err != nil {
		r.logger.Error("Failed to count failed events by provider", zap.Error(err))
		return nil, fmt.Errorf("failed to count failed events: %w", err)
	}

	return counts, nil
}

// ListDeadLetters returns dead-lettered events newest-first with the total count
func (r *webhookEventRepository) ListDeadLetters(ctx context.Context, offset, limit int) ([]*model.WebhookEvent, int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("status = ?", model.WebhookStatusDeadLetter).
		Count(&total).Error
	if err != nil {
		r.logger.Error("Failed to count dead-letter events", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count dead-letter events: %w", err)
	}

	var events []*model.WebhookEvent
	err = r.db.WithContext(ctx).
		Where("status = ?", model.WebhookStatusDeadLetter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error

	if err != nil {
		r.logger.Error("Failed to list dead-letter events", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list dead-letter events: %w", err)
	}

	return events, total, nil
}
