package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/fanlift/webhook-service/internal/adapter/handler/http"
	"github.com/fanlift/webhook-service/internal/config"
	"github.com/fanlift/webhook-service/internal/middleware/auth"
	"github.com/fanlift/webhook-service/internal/usecase"
	"github.com/fanlift/webhook-service/pkg/logger"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	ingest   *usecase.IngestService
	stats    *usecase.StatsService
	override *usecase.OverrideService
	sweep    *usecase.SweepService
}

func NewServer(cfg *config.Config, log *zap.Logger, ingest *usecase.IngestService, stats *usecase.StatsService, override *usecase.OverrideService, sweep *usecase.SweepService) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		ingest:   ingest,
		stats:    stats,
		override: override,
		sweep:    sweep,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "webhook",
		})
	})

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.ingest)
	adminHandler := handlers.NewAdminHandler(s.logger, s.stats, s.override, s.sweep)

	// Public ingestion endpoint; callbacks are signature-verified upstream
	s.echo.POST("/webhooks/:provider", webhookHandler.HandleWebhook)

	// Operator routes (require JWT authentication)
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}

	internal := s.echo.Group("/api/v1/internal", auth.JWTMiddleware(jwtConfig))
	internal.GET("/webhooks/stats", adminHandler.GetStats)
	internal.GET("/webhooks/dead-letters", adminHandler.GetDeadLetters)
	internal.POST("/webhooks/:id/retry", adminHandler.RetryEvent)
	internal.POST("/webhooks/sweep", adminHandler.TriggerSweep)
}
