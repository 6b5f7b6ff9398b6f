// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stackit/interaction/internal/adapters/clients"
	"github.com/stackit/interaction/internal/adapters/clients/acl"
	httpadapter "github.com/stackit/interaction/internal/adapters/http"
	"github.com/stackit/interaction/internal/adapters/http/handlers"
	"github.com/stackit/interaction/internal/app"
	"github.com/stackit/interaction/internal/app/state"
	"github.com/stackit/interaction/internal/platform/config"
	"github.com/stackit/interaction/internal/platform/logging"
	"github.com/stackit/interaction/internal/platform/telemetry"
	"github.com/stackit/interaction/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Create HTTP client for the upstream forum service. Each outbound
	// request forwards the bearer token of the session that triggered it.
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Forum.BaseURL,
		ServiceName: cfg.Services.Forum.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		AuthFunc: func(req *http.Request) {
			if token := state.TokenFromContext(req.Context()); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 7. Create forum client adapter (ACL pattern)
	forumClient := acl.NewForumAdapter(httpClient)

	if err := healthRegistry.Register(forumClient); err != nil {
		return fmt.Errorf("registering forum client health check: %w", err)
	}

	// 8. Create the session store and application services
	sessions := state.NewStore(state.StoreConfig{TTL: cfg.Session.TTL})

	executor := app.NewExecutor(logger)
	feedService := app.NewFeedService(forumClient, executor, logger)
	voteService := app.NewVoteService(forumClient, logger)
	acceptanceService := app.NewAcceptanceService(forumClient, logger)
	notificationService := app.NewNotificationService(forumClient, logger)
	sessionService := app.NewSessionService(forumClient, sessions, feedService, logger)

	// Preload the shared anonymous session so unauthenticated browsing
	// has content before anyone logs in. Falls back to the demo dataset
	// when the upstream is unreachable.
	feedService.Load(ctx, sessions.Anonymous())

	// 9. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	forumHandler := handlers.NewForumHandler(feedService, voteService, acceptanceService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// 10. Create HTTP server
	server := httpadapter.New(&cfg.Server, logger)

	// 11. Setup router with all middleware and routes
	routerCfg := httpadapter.RouterConfig{
		Logger:              logger,
		AppConfig:           &cfg.App,
		Sessions:            sessions,
		HealthHandler:       healthHandler,
		SessionHandler:      sessionHandler,
		ForumHandler:        forumHandler,
		NotificationHandler: notificationHandler,
		Timeout:             httpadapter.DefaultRequestTimeout,
	}
	httpadapter.SetupRouter(server.Engine(), routerCfg)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *httpadapter.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
