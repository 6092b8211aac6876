package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"userdash/internal/cache"
	"userdash/internal/config"
	"userdash/internal/directory"
	"userdash/internal/events"
	"userdash/internal/http/handlers/health"
	usershandler "userdash/internal/http/handlers/users"
	"userdash/internal/http/router"
	"userdash/internal/logging"
	"userdash/internal/store"
	"userdash/internal/telemetry"
)

func main() {
	// Top-level context with graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2) Initialize logger
	logger := logging.New(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceEnv,
	)

	logger.Info("starting service",
		"env", cfg.Environment,
		"directory", cfg.Directory.BaseURL,
	)

	// 3) Initialize telemetry (OpenTelemetry)
	otelShutdown, err := telemetry.Setup(ctx, cfg.Observability, logger)
	if err != nil {
		logger.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	// 4) Initialize Redis (optional, backs the detail cache)
	var redisClient *cache.RedisClient
	detailCache := cache.DetailCache(cache.NoopDetailCache{})
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis", "error", err)
			}
		}()
		detailCache = cache.NewDetailCache(redisClient)
	}

	// 5) Initialize event bus (Watermill/Kafka, noop when disabled)
	bus, closeBus, err := events.NewBus(cfg.Kafka, logger)
	if err != nil {
		logger.Error("failed to init event bus", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = closeBus(context.Background())
	}()

	// 6) Directory client
	directoryClient, err := directory.New(cfg.Directory.BaseURL, cfg.Directory.Timeout, logger)
	if err != nil {
		logger.Error("failed to init directory client", "error", err)
		os.Exit(1)
	}

	// 7) Stores
	userEvents := events.NewUserEvents(bus, cfg.Kafka, logger)
	listStore := store.NewListStore(directoryClient, userEvents, cfg.Directory.PageSize, logger)
	detailStore := store.NewDetailStore(directoryClient, detailCache, logger)

	// 8) HTTP handlers
	healthHandler := health.NewHandler(redisClient)
	usersHandler := usershandler.NewHandler(listStore, detailStore, logger)

	// 9) HTTP router
	httpRouter := router.NewRouter(
		logger,
		cfg.Observability.ServiceName,
		healthHandler,
		usersHandler,
	)

	// 10) HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: otelhttp.NewHandler(
			httpRouter,
			cfg.Observability.ServiceName, // span name prefix
		),
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting",
			"host", cfg.HTTP.Host,
			"port", cfg.HTTP.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 11) Wait for shutdown signal or an error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		logger.Error("fatal error from http server", "error", err)
		stop()
	}

	// 12) Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown http server", "error", err)
	}

	logger.Info("service stopped")
}
