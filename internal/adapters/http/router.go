package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotes-api/internal/platform/config"
	"github.com/jsamuelsen/quotes-api/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// metricsPath is exempt from the request timeout; scrapes can be slow.
const metricsPath = "/-/metrics"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig holds the shared secret guarding destructive routes.
	AuthConfig *config.AuthConfig

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles the public quote endpoints.
	QuoteHandler *handlers.QuoteHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request logger - cfg.Logger unless the server already set one
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//  7. Timeout - request deadline (skips the metrics scrape)
//
// Routes:
//   - /-/ (internal): Health, build info and metrics, no auth required
//   - / (public API): Quote endpoints; delete requires the API key
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(
		middleware.Logging(cfg.Logger),
		middleware.SimpleTimeout(cfg.Timeout, metricsPath),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.QuoteHandler != nil {
		engine.SetHTMLTemplate(handlers.IndexTemplate())
		cfg.QuoteHandler.RegisterQuoteRoutes(engine, middleware.RequireAPIKey(cfg.AuthConfig))
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
	quoteHandler *handlers.QuoteHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		QuoteHandler:  quoteHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
