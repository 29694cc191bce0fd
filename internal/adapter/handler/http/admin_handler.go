package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fanlift/webhook-service/internal/domain/entity"
	domainErrors "github.com/fanlift/webhook-service/internal/domain/errors"
	"github.com/fanlift/webhook-service/internal/usecase"
)

// AdminHandler exposes the operator surface: dead-letter listing, failure
// counts, manual retry, and on-demand sweep triggering.
type AdminHandler struct {
	logger   *zap.Logger
	stats    *usecase.StatsService
	override *usecase.OverrideService
	sweep    *usecase.SweepService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(logger *zap.Logger, stats *usecase.StatsService, override *usecase.OverrideService, sweep *usecase.SweepService) *AdminHandler {
	return &AdminHandler{
		logger:   logger,
		stats:    stats,
		override: override,
		sweep:    sweep,
	}
}

// GetStats returns failed-event counts grouped by provider
func (h *AdminHandler) GetStats(c echo.Context) error {
	counts, err := h.stats.FailedCountsByProvider(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to load webhook stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{"failed_by_provider": counts})
}

// GetDeadLetters returns a paginated, newest-first dead-letter listing
func (h *AdminHandler) GetDeadLetters(c echo.Context) error {
	var params entity.PaginationParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid pagination parameters"})
	}

	events, meta, err := h.stats.DeadLetters(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("Failed to list dead-letter events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list dead-letter events"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":       events,
		"pagination": meta,
	})
}

// RetryEvent forces immediate reprocessing of one event
func (h *AdminHandler) RetryEvent(c echo.Context) error {
	id := c.Param("id")

	event, err := h.override.RetryOne(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Webhook event not found"})
		case errors.Is(err, domainErrors.ErrEventAlreadyProcessed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Webhook event already processed"})
		case errors.Is(err, domainErrors.ErrEventPayloadEmpty):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "Webhook event has no stored payload"})
		case errors.Is(err, domainErrors.ErrEventNotRetryable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Webhook event is not in a retryable state"})
		default:
			h.logger.Error("Manual retry failed", zap.String("id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Manual retry failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":          event.ID,
		"status":      event.Status,
		"retry_count": event.RetryCount,
	})
}

// TriggerSweep runs one sweep cycle immediately
func (h *AdminHandler) TriggerSweep(c echo.Context) error {
	summary, err := h.sweep.Sweep(c.Request().Context())
	if err != nil {
		h.logger.Error("Manual sweep failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Sweep failed"})
	}

	return c.JSON(http.StatusOK, summary)
}
