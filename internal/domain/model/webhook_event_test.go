package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWebhookStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   WebhookStatus
		terminal bool
	}{
		{WebhookStatusReceived, false},
		{WebhookStatusProcessing, false},
		{WebhookStatusFailed, false},
		{WebhookStatusPendingRetry, false},
		{WebhookStatusProcessed, true},
		{WebhookStatusDeadLetter, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}

func TestWebhookEvent_NextAttemptAfter(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	processed := created.Add(30 * time.Minute)

	event := &WebhookEvent{CreatedAt: created}
	assert.Equal(t, created, event.NextAttemptAfter())

	event.ProcessedAt = &processed
	assert.Equal(t, processed, event.NextAttemptAfter())
}
