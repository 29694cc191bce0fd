package toss

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Handler is the default TossPayments event handler. Like the Stripe default,
// it validates the envelope and acknowledges; payment-state interpretation is
// left to the consuming application.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates the default Toss event handler
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle validates the payload as a Toss webhook envelope
func (h *Handler) Handle(ctx context.Context, eventID string, payload map[string]interface{}) error {
	eventType, _ := payload["eventType"].(string)
	if eventType == "" {
		return fmt.Errorf("toss event missing eventType")
	}

	h.logger.Info("Toss webhook event acknowledged",
		zap.String("webhook_event_id", eventID),
		zap.String("event_type", eventType))

	return nil
}
