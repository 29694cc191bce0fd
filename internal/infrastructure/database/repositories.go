package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fanlift/webhook-service/internal/adapter/repository"
	domainRepo "github.com/fanlift/webhook-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	WebhookEvent domainRepo.WebhookEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		WebhookEvent: repository.NewWebhookEventRepository(db, logger),
	}
}
