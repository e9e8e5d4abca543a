// Package main is the entry point for the quotes API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-api/internal/adapters/storage/sqlstore"
	"github.com/jsamuelsen/quotes-api/internal/app"
	"github.com/jsamuelsen/quotes-api/internal/platform/config"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
	"github.com/jsamuelsen/quotes-api/internal/platform/telemetry"
	"github.com/jsamuelsen/quotes-api/internal/ports"
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

// dbMetricsNamespace prefixes the connection pool metrics.
const dbMetricsNamespace = "quotes"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Pick up DATABASE_URL and friends from .env; real env vars win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

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
	logging.SetDefault(logger)

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

	// 5. Open the store and make sure the table exists
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Logger:          logger,
	})
	if err != nil {
		return errors.Join(fmt.Errorf("opening store: %w", err), telProvider.Shutdown(context.WithoutCancel(ctx)))
	}

	// Everything opened from here on is released by closeAll.
	closeAll := func() error {
		var g errgroup.Group

		g.Go(store.Close)
		g.Go(func() error { return telProvider.Shutdown(context.WithoutCancel(ctx)) })

		return g.Wait()
	}

	if err := store.EnsureSchema(ctx); err != nil {
		return errors.Join(fmt.Errorf("ensuring schema: %w", err), closeAll())
	}

	logger.Info("database ready", slog.String("dialect", store.Dialect()))

	// 6. Health checks and pool metrics
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return errors.Join(fmt.Errorf("registering store health check: %w", err), closeAll())
	}

	if err := prometheus.Register(collectors.NewDBStatsCollector(store.DB(), dbMetricsNamespace)); err != nil {
		return errors.Join(fmt.Errorf("registering pool metrics: %w", err), closeAll())
	}

	// 7. Application service and handlers
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Logger:     logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(quoteService, cfg.App.Name, cfg.App.Version)

	// 8. HTTP server with middleware and routes
	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, healthHandler, quoteHandler)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	// 9. Serve until SIGINT/SIGTERM, then drain and release resources
	serveErr := server.Run(ctx)
	if serveErr == nil {
		logger.Info("received shutdown signal")
	}

	if err := closeAll(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
		serveErr = errors.Join(serveErr, err)
	}

	logger.Info("service stopped")

	return serveErr
}
