package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/repository"
)

// StatsService serves the read-only aggregates consumed by the admin surface.
// It mutates no state and imposes no invariants beyond read consistency.
type StatsService struct {
	repo   repository.WebhookEventRepository
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(repo repository.WebhookEventRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		repo:   repo,
		logger: logger,
	}
}

// FailedCountsByProvider returns the count of failed events per provider
func (s *StatsService) FailedCountsByProvider(ctx context.Context) ([]entity.ProviderFailureCount, error) {
	return s.repo.CountFailedByProvider(ctx)
}

// DeadLetters returns a bounded, newest-first page of dead-lettered events
func (s *StatsService) DeadLetters(ctx context.Context, params entity.PaginationParams) ([]*model.WebhookEvent, entity.PaginationMeta, error) {
	params.Validate()

	events, total, err := s.repo.ListDeadLetters(ctx, params.CalculateOffset(), params.Limit)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}

	return events, entity.NewPaginationMeta(params.Page, params.Limit, total), nil
}
