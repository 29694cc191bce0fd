package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

// Handler is the default Stripe event handler: it validates the stored
// envelope against the Stripe event schema and acknowledges it. Business
// interpretation of individual event types (invoices, subscriptions) belongs
// to the consuming application, which registers its own handler in place of
// this one.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates the default Stripe event handler
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle validates the payload as a Stripe event envelope
func (h *Handler) Handle(ctx context.Context, eventID string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to re-encode stripe payload: %w", err)
	}

	var event stripe.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("malformed stripe event payload: %w", err)
	}
	if event.ID == "" || event.Type == "" {
		return fmt.Errorf("stripe event missing id or type")
	}

	h.logger.Info("Stripe webhook event acknowledged",
		zap.String("webhook_event_id", eventID),
		zap.String("stripe_event_id", event.ID),
		zap.String("type", string(event.Type)))

	return nil
}
