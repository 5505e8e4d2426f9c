package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	httpadapter "pagefetch/internal/adapters/http"
	"pagefetch/internal/config"
	"pagefetch/internal/domain"
	"pagefetch/internal/observability"
	"pagefetch/internal/observability/logger"
	"pagefetch/internal/observability/metrics"
	"pagefetch/internal/observability/types"
	"pagefetch/internal/service"
	"pagefetch/internal/source"
	"pagefetch/internal/storage"
	"pagefetch/internal/usecase"
)

func main() {
	cfg := loadConfiguration()

	deps := initializeDependencies(cfg)

	app := buildApplication(cfg, deps)

	os.Exit(startApplication(app))
}

// Dependencies holds all initialized infrastructure components
type Dependencies struct {
	provider *observability.DefaultProvider
	fetcher  *httpadapter.Client
	storage  domain.DestinationOpener
	logger   types.Logger
}

// Application holds the complete application stack
type Application struct {
	cfg      *config.Config
	runID    string
	loader   *source.Loader
	runner   *usecase.BatchRunner
	provider *observability.DefaultProvider
	logger   types.Logger
}

// loadConfiguration loads and validates the application configuration
func loadConfiguration() *config.Config {
	cfgProvider := config.GetProvider()
	if err := cfgProvider.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfgProvider.MustGet()
}

// initializeDependencies sets up all infrastructure dependencies
func initializeDependencies(cfg *config.Config) *Dependencies {
	provider := initializeObservability(cfg)
	appLogger := provider.Logger("main")

	logStartup(cfg, appLogger)

	return &Dependencies{
		provider: provider,
		fetcher:  createHTTPClient(cfg),
		storage:  initializeStorage(cfg, provider),
		logger:   appLogger,
	}
}

// initializeObservability opens the persisted log and builds the provider.
// The log file is required; without it the run does not start.
func initializeObservability(cfg *config.Config) *observability.DefaultProvider {
	file, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		log.Fatalf("Error opening error log file: %v", err)
	}

	return observability.NewProvider(&observability.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		LogOutput:   logger.NewSink(os.Stdout, file),
		AdditionalFields: types.Fields{
			"version": cfg.Version,
		},
	})
}

// logStartup logs application startup information
func logStartup(cfg *config.Config, appLogger types.Logger) {
	appLogger.Debug(context.Background(), "Starting application", types.Fields{
		"service":     cfg.ServiceName,
		"version":     cfg.Version,
		"environment": cfg.Environment,
		"input":       cfg.Input.URLFile,
		"output":      cfg.Output.Provider,
	})
}

// initializeStorage sets up the output destination
func initializeStorage(cfg *config.Config, provider *observability.DefaultProvider) domain.DestinationOpener {
	storageLogger := provider.Logger("storage")

	opener, err := storage.New(context.Background(), cfg.Output, storageLogger, provider.Metrics("storage"))
	if err != nil {
		storageLogger.Error(context.Background(), "Failed to initialize storage", err, nil)
		_ = provider.Close()
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	return opener
}

// createHTTPClient creates the transfer client from HTTP settings
func createHTTPClient(cfg *config.Config) *httpadapter.Client {
	return httpadapter.NewClient(httpadapter.ClientConfig{
		Timeout:             cfg.HTTP.Timeout,
		UserAgent:           cfg.HTTP.UserAgent,
		MaxRedirects:        cfg.HTTP.MaxRedirects,
		StallMinBytesPerSec: cfg.HTTP.StallMinBytesPerSec,
		StallWindow:         cfg.HTTP.StallWindow,
	})
}

// buildApplication assembles the application layers
func buildApplication(cfg *config.Config, deps *Dependencies) *Application {
	var opts []usecase.Option
	if cfg.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, usecase.WithRateLimiter(
			rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		))
	}

	runner := usecase.NewBatchRunner(
		deps.fetcher,
		deps.storage,
		usecase.BatchConfig{
			FilePattern: cfg.Output.FilePattern,
			Pool:        cfg.Pool,
			Retry: service.RetryPolicy{
				MaxAttempts: cfg.Retry.MaxAttempts,
				BackoffUnit: cfg.Retry.BackoffUnit,
			},
		},
		deps.provider,
		opts...,
	)

	return &Application{
		cfg:      cfg,
		runID:    uuid.NewString(),
		loader:   source.NewLoader(deps.provider.Logger("source")),
		runner:   runner,
		provider: deps.provider,
		logger:   deps.logger,
	}
}

// startApplication runs the batch and returns the process exit code.
// Task failures do not affect the exit code.
func startApplication(app *Application) int {
	defer app.provider.Close()

	ctx := types.WithRunID(context.Background(), app.runID)

	urls, err := app.loader.LoadFile(ctx, app.cfg.Input.URLFile)
	if err != nil {
		if !errors.Is(err, domain.ErrNoValidURLs) {
			app.logger.Error(ctx, "Error opening file: "+app.cfg.Input.URLFile, err, nil)
		}
		app.logger.Error(ctx, domain.ErrNoValidURLs.Message, nil, nil)
		return 1
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	var g errgroup.Group

	if addr := app.cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			if err := metrics.Serve(metricsCtx, addr, app.provider.Registry()); err != nil {
				app.logger.Warn(ctx, "Metrics endpoint unavailable: "+err.Error(), types.Fields{"addr": addr})
			}
			return nil
		})
	}

	var summary domain.Summary
	g.Go(func() error {
		defer stopMetrics()
		var err error
		summary, err = app.runner.Run(ctx, urls)
		return err
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "Batch did not run", err, nil)
		return 1
	}

	app.logger.Debug(ctx, "Batch finished", types.Fields{
		"succeeded": summary.Succeeded,
		"exhausted": summary.Exhausted,
		"aborted":   summary.Aborted,
		"workers":   summary.Workers,
	})
	return 0
}
