package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/model"
	"github.com/fanlift/webhook-service/internal/domain/provider"
	"github.com/fanlift/webhook-service/internal/usecase"
)

// WebhookHandler receives inbound provider callbacks and hands them to the
// ingest service. Signature verification happens upstream of this service;
// the body is stored verbatim.
type WebhookHandler struct {
	logger *zap.Logger
	ingest *usecase.IngestService
}

// NewWebhookHandler creates a new webhook ingestion handler
func NewWebhookHandler(logger *zap.Logger, ingest *usecase.IngestService) *WebhookHandler {
	return &WebhookHandler{
		logger: logger,
		ingest: ingest,
	}
}

// HandleWebhook ingests one provider event delivery
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	providerType := provider.ProviderType(c.Param("provider"))
	if !providerType.Valid() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown provider"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	var payload model.JSONB
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("Malformed webhook body",
			zap.String("provider", string(providerType)),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Malformed JSON body"})
	}

	eventID, eventType := extractEnvelope(providerType, payload)
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing event id"})
	}

	_, isNew, err := h.ingest.Ingest(c.Request().Context(), providerType, eventID, eventType, payload)
	if err != nil {
		h.logger.Error("Failed to ingest webhook event",
			zap.String("provider", string(providerType)),
			zap.String("event_id", eventID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record event"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"received":  true,
		"duplicate": !isNew,
	})
}

// extractEnvelope pulls the provider-assigned event id and type out of the
// raw body. Each provider names these fields differently.
func extractEnvelope(providerType provider.ProviderType, payload model.JSONB) (eventID, eventType string) {
	switch providerType {
	case provider.ProviderTypeStripe:
		eventID, _ = payload["id"].(string)
		eventType, _ = payload["type"].(string)
	case provider.ProviderTypeToss:
		eventID, _ = payload["eventId"].(string)
		if eventID == "" {
			eventID, _ = payload["id"].(string)
		}
		eventType, _ = payload["eventType"].(string)
	}
	return eventID, eventType
}
