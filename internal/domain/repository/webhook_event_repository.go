package repository

import (
	"context"
	"time"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

// WebhookEventRepository is the persistence port for the event store. The
// Transition method is the pipeline's only mutation primitive after ingestion:
// it applies a status change iff the row is still in one of the expected
// source states, which serializes races between workers, the sweep, and
// manual overrides.
type WebhookEventRepository interface {
	// RecordIfNew inserts a new event in the received state unless the
	// (provider, eventID) pair already exists, in which case it returns the
	// existing row and false. This is the idempotency boundary for redelivery.
	RecordIfNew(ctx context.Context, providerType provider.ProviderType, eventID, eventType string, payload model.JSONB) (*model.WebhookEvent, bool, error)

	// Transition conditionally updates the event iff its current status is one
	// of from. It reports whether the update applied; a false result is the
	// expected outcome of losing a race, not an error.
	Transition(ctx context.Context, id string, from []model.WebhookStatus, to model.WebhookStatus, fields map[string]interface{}) (bool, error)

	// GetEvent retrieves an event by its internal id; returns nil when absent
	GetEvent(ctx context.Context, id string) (*model.WebhookEvent, error)

	// FindRetryCandidates returns failed and pending_retry events that still
	// have retry budget, oldest-created-first, capped at limit. Backoff
	// eligibility is filtered in memory by the caller.
	FindRetryCandidates(ctx context.Context, maxRetries, limit int) ([]*model.WebhookEvent, error)

	// FindStaleProcessing returns processing events whose last activity is
	// older than the cutoff, capped at limit
	FindStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]*model.WebhookEvent, error)

	// CountFailedByProvider counts failed events grouped by provider
	CountFailedByProvider(ctx context.Context) ([]entity.ProviderFailureCount, error)

	// ListDeadLetters returns dead-lettered events newest-first with the total
	// dead-letter count for pagination
	ListDeadLetters(ctx context.Context, offset, limit int) ([]*model.WebhookEvent, int64, error)
}
