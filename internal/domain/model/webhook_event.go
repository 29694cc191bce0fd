package model

import (
	"database/sql/driver"
	"time"

	"github.com/fanlift/webhook-service/internal/domain/provider"
)

// WebhookStatus represents the processing status of a webhook event
type WebhookStatus string

const (
	WebhookStatusReceived     WebhookStatus = "received"
	WebhookStatusProcessing   WebhookStatus = "processing"
	WebhookStatusProcessed    WebhookStatus = "processed"
	WebhookStatusFailed       WebhookStatus = "failed"
	WebhookStatusPendingRetry WebhookStatus = "pending_retry"
	WebhookStatusDeadLetter   WebhookStatus = "dead_letter"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusReceived
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// Terminal reports whether the status permits no further transitions through
// the pipeline. Manual override is the only path out of dead_letter.
func (w WebhookStatus) Terminal() bool {
	return w == WebhookStatusProcessed || w == WebhookStatusDeadLetter
}

// WebhookEvent represents one externally delivered provider event and its
// processing state. The row itself is the unit of ownership: every status
// change goes through a conditional update keyed on the expected current
// status, so no separate lock table exists.
type WebhookEvent struct {
	ID          string                `gorm:"type:uuid;primaryKey" json:"id"`
	Provider    provider.ProviderType `gorm:"not null;size:50;uniqueIndex:idx_webhook_events_provider_event_id;index" json:"provider"`
	EventID     string                `gorm:"not null;size:255;uniqueIndex:idx_webhook_events_provider_event_id" json:"event_id"`
	EventType   string                `gorm:"not null;size:100;index" json:"event_type"`
	Payload     JSONB                 `gorm:"type:jsonb;not null" json:"payload"`
	Status      WebhookStatus         `gorm:"type:varchar(20);default:'received';index" json:"status"`
	RetryCount  int                   `gorm:"default:0" json:"retry_count"`
	LastError   *string               `json:"last_error,omitempty"`
	CreatedAt   time.Time             `gorm:"default:now()" json:"created_at"`
	ProcessedAt *time.Time            `json:"processed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// NextAttemptAfter returns the reference time from which the backoff delay is
// measured: the completion of the last attempt, or ingestion if no attempt
// has completed yet.
func (e *WebhookEvent) NextAttemptAfter() time.Time {
	if e.ProcessedAt != nil {
		return *e.ProcessedAt
	}
	return e.CreatedAt
}
