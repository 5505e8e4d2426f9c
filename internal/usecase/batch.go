// Package usecase runs a batch of page downloads end to end.
package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"pagefetch/internal/config"
	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
	"pagefetch/internal/progress"
	"pagefetch/internal/queue"
	"pagefetch/internal/service"
	"pagefetch/internal/worker"
)

// BatchConfig holds the per-run settings of a BatchRunner.
type BatchConfig struct {
	FilePattern string
	Pool        config.PoolConfig
	Retry       service.RetryPolicy
	// Parallelism overrides the detected CPU count when positive.
	Parallelism int
}

// BatchRunner turns a validated URL list into tasks and runs them on a
// freshly sized worker pool.
type BatchRunner struct {
	fetcher  domain.Fetcher
	opener   domain.DestinationOpener
	config   BatchConfig
	limiter  *rate.Limiter
	sleep    service.SleepFunc
	provider types.Provider
	logger   types.Logger
}

// Option configures a BatchRunner.
type Option func(*BatchRunner)

// WithRateLimiter paces attempts across the whole pool.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(r *BatchRunner) {
		r.limiter = l
	}
}

// WithBackoffSleep replaces the executor's backoff sleep.
func WithBackoffSleep(fn service.SleepFunc) Option {
	return func(r *BatchRunner) {
		r.sleep = fn
	}
}

// NewBatchRunner creates a runner. Component loggers and metrics come from provider.
func NewBatchRunner(fetcher domain.Fetcher, opener domain.DestinationOpener, cfg BatchConfig, provider types.Provider, opts ...Option) *BatchRunner {
	if cfg.FilePattern == "" {
		cfg.FilePattern = config.DefaultOutputConfig().FilePattern
	}

	r := &BatchRunner{
		fetcher:  fetcher,
		opener:   opener,
		config:   cfg,
		provider: provider,
		logger:   provider.Logger("batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run downloads every URL and returns the tally once all workers have exited.
// Task failures are reported in the summary, not as an error; the only error
// is domain.ErrNoValidURLs for an empty list, in which case no pool is started.
func (r *BatchRunner) Run(ctx context.Context, urls []string) (domain.Summary, error) {
	if len(urls) == 0 {
		return domain.Summary{}, domain.ErrNoValidURLs
	}

	tasks := make([]domain.DownloadTask, len(urls))
	for i, u := range urls {
		tasks[i] = domain.NewDownloadTask(u, r.config.FilePattern, i+1)
	}

	counter := progress.NewCounter(len(tasks))
	executor := service.NewExecutor(
		r.fetcher,
		r.opener,
		counter,
		r.config.Retry,
		r.provider.Logger("executor"),
		r.provider.Metrics("executor"),
		service.WithRateLimiter(r.limiter),
		service.WithSleep(r.sleep),
	)

	parallelism := r.config.Parallelism
	if parallelism <= 0 {
		parallelism = worker.AvailableParallelism()
	}
	workers := worker.Size(len(tasks), parallelism, r.config.Pool)

	q := queue.New[domain.DownloadTask]()
	pool := worker.NewPool(workers, q, executor, r.provider.Logger("pool"), r.provider.Metrics("pool"))

	r.logger.Info(ctx, fmt.Sprintf("Starting download of %d pages with %d workers", len(tasks), workers), types.Fields{
		"parallelism": parallelism,
	})

	start := time.Now()
	pool.Start(ctx)
	for _, task := range tasks {
		if err := q.Enqueue(task); err != nil {
			// Only reachable if the queue was closed underneath us.
			r.logger.Error(ctx, "Failed to enqueue "+task.Source, err, nil)
		}
	}
	summary := pool.Shutdown()
	summary.Duration = time.Since(start)

	r.logger.Info(ctx, fmt.Sprintf("Download complete! %d pages downloaded.", counter.Value()), types.Fields{
		"total":     summary.Total,
		"exhausted": summary.Exhausted,
		"aborted":   summary.Aborted,
		"duration":  summary.Duration.Round(time.Millisecond).String(),
	})

	return summary, nil
}
