package entity

import (
	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
)

// WebhookJob is the unit of work carried on the job queue. It holds enough
// for a worker to re-run the provider handler and correlate the outcome back
// to the stored event.
type WebhookJob struct {
	Provider       provider.ProviderType `json:"provider"`
	Payload        model.JSONB           `json:"payload"`
	WebhookEventID string                `json:"webhook_event_id"`
}
