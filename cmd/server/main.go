// Package main runs the cluster detection HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"solana-cluster-monitor/internal/api"
	"solana-cluster-monitor/internal/config"
	"solana-cluster-monitor/internal/helius"
	"solana-cluster-monitor/internal/logger"
	"solana-cluster-monitor/internal/messaging"
	"solana-cluster-monitor/internal/observability"
	"solana-cluster-monitor/internal/service"
	"solana-cluster-monitor/internal/storage"
	"solana-cluster-monitor/internal/storage/memory"
	"solana-cluster-monitor/internal/storage/migrations"
	pgstore "solana-cluster-monitor/internal/storage/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Helius.APIKey == "" {
		log.Warn("HELIUS_API_KEY is not set, upstream requests will be rejected")
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.NATS),

		fx.Provide(
			newMetrics,
			newTransactionSource,
			newClusterStore,
			newPublisher,
			newDetectionService,
			newAPIServer,
		),

		fx.Invoke(startHTTPServer),

		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	if err := app.Start(ctx); err != nil {
		cancel()
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}
	cancel()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

func newMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewMetrics(cfg.Metrics.Namespace)
}

func newTransactionSource(cfg *config.Config, log *logger.Logger) helius.TransactionSource {
	return helius.NewHTTPClient(cfg.Helius.BaseURL, cfg.Helius.APIKey,
		helius.WithTimeout(cfg.Helius.Timeout),
		helius.WithMaxRetries(cfg.Helius.MaxRetries),
		helius.WithRetryDelay(cfg.Helius.RetryDelay),
		helius.WithLogger(log.WithComponent("helius").Logger),
	)
}

// newClusterStore returns the postgres store when enabled, memory otherwise.
func newClusterStore(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (storage.ClusterStore, error) {
	if !cfg.Postgres.Enabled {
		log.Info("Postgres disabled, cluster history is kept in memory")
		return memory.NewClusterStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("Connected to Postgres, migrations applied")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pgstore.NewClusterStore(pool), nil
}

// newPublisher connects to NATS when enabled.
func newPublisher(lc fx.Lifecycle, cfg *config.NATSConfig, log *logger.Logger) messaging.Publisher {
	if !cfg.Enabled {
		log.Info("NATS is disabled, cluster events are not published")
		return messaging.NopPublisher{}
	}

	pub := messaging.NewNATSPublisher(cfg, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return pub.Connect(cfg)
		},
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	return pub
}

func newDetectionService(
	cfg *config.Config,
	log *logger.Logger,
	src helius.TransactionSource,
	store storage.ClusterStore,
	pub messaging.Publisher,
	metrics *observability.Metrics,
) *service.DetectionService {
	return service.New(service.Options{
		Source:     src,
		Logger:     log,
		Store:      store,
		Publisher:  pub,
		Metrics:    metrics,
		FetchLimit: cfg.Helius.FetchLimit,
		Pages:      cfg.Helius.Pages,
	})
}

func newAPIServer(
	cfg *config.Config,
	log *logger.Logger,
	svc *service.DetectionService,
	metrics *observability.Metrics,
) *api.Server {
	return api.NewServer(api.Options{
		Detector: svc,
		Defaults: cfg.Detection.Params(),
		Metrics:  metrics,
		Logger:   log,
	})
}

// startHTTPServer serves the API for the lifetime of the application.
func startHTTPServer(lc fx.Lifecycle, cfg *config.Config, srv *api.Server, log *logger.Logger) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler: srv.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting HTTP server",
				zap.Int("port", cfg.App.HTTPPort),
				zap.String("project", cfg.App.ProjectName),
				zap.String("version", cfg.App.Version))

			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
