package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stackit/interaction/internal/adapters/http/handlers"
	"github.com/stackit/interaction/internal/adapters/http/middleware"
	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/platform/config"
	"github.com/stackit/interaction/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// Sessions is the bearer-token session store. Requests without a
	// token get the shared anonymous session.
	Sessions *state.Store

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// SessionHandler handles login, register, logout, and me.
	SessionHandler *handlers.SessionHandler

	// ForumHandler handles the question feed, votes, and acceptance.
	ForumHandler *handlers.ForumHandler

	// NotificationHandler handles the notification list and read flags.
	NotificationHandler *handlers.NotificationHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline (applied to the API group)
//  7. Session - resolve the bearer token to a session
//
// Route groups:
//   - /-/ (internal): Health endpoints, no session required
//   - /api/v1/ (public API): Business endpoints, session attached
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Health endpoints bypass timeouts and session resolution so probes
	// stay cheap.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	apiV1.Use(middleware.SessionAuth(cfg.Sessions))

	if cfg.SessionHandler != nil {
		cfg.SessionHandler.RegisterRoutes(apiV1)
	}

	if cfg.ForumHandler != nil {
		cfg.ForumHandler.RegisterRoutes(apiV1)
	}

	if cfg.NotificationHandler != nil {
		cfg.NotificationHandler.RegisterRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	sessions *state.Store,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		Sessions:      sessions,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
