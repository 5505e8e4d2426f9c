package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	httpadapter "pagefetch/internal/adapters/http"
	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
	"pagefetch/internal/progress"
)

var errCommitFailed = errors.New("commit failed")

// Executor runs one download task through its attempt/backoff cycle.
//
// Every attempt acquires a transfer handle and a destination handle and
// releases both before the attempt returns. Failing to acquire either ends the
// task without retry; any other failure is retried until the policy's attempt
// ceiling.
type Executor struct {
	fetcher domain.Fetcher
	opener  domain.DestinationOpener
	counter *progress.Counter
	policy  RetryPolicy
	limiter *rate.Limiter
	sleep   SleepFunc
	logger  types.Logger
	metrics types.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithRateLimiter paces attempts through l. A nil limiter disables pacing.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(e *Executor) {
		e.limiter = l
	}
}

// WithSleep replaces the backoff sleep.
func WithSleep(fn SleepFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// NewExecutor creates an executor reporting successes to counter.
func NewExecutor(
	fetcher domain.Fetcher,
	opener domain.DestinationOpener,
	counter *progress.Counter,
	policy RetryPolicy,
	logger types.Logger,
	metrics types.Metrics,
	opts ...Option,
) *Executor {
	e := &Executor{
		fetcher: fetcher,
		opener:  opener,
		counter: counter,
		policy:  policy,
		sleep:   sleepContext,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute drives task to a terminal state and reports how it ended.
func (e *Executor) Execute(ctx context.Context, task domain.DownloadTask) domain.Outcome {
	e.metrics.StartOperation("download")
	defer e.metrics.EndOperation("download")
	startTime := time.Now()
	defer func() {
		e.metrics.RecordDuration("download", time.Since(startTime).Seconds())
	}()

	maxAttempts := e.policy.attempts()
	outcome := domain.Outcome{Task: task}

	for attempt := 0; ; attempt++ {
		outcome.Attempts = attempt + 1

		n, err := e.attempt(ctx, task)
		if err == nil {
			outcome.State = domain.StateSucceeded
			outcome.Bytes = n
			e.reportSuccess(ctx, task, outcome)
			return outcome
		}
		outcome.Err = err

		if !domain.IsRetryable(err) {
			outcome.State = domain.StateAborted
			e.metrics.RecordError("download", "acquisition")
			e.logger.Error(ctx, fmt.Sprintf("Download aborted for %s", task.Source), err, types.Fields{
				"destination": task.Destination,
				"attempt":     outcome.Attempts,
			})
			return outcome
		}

		errorType := categorizeError(err)
		if attempt+1 >= maxAttempts {
			outcome.State = domain.StateExhausted
			e.metrics.RecordError("download", errorType)
			e.logger.Error(ctx, fmt.Sprintf("Download failed for %s after %d attempts", task.Source, maxAttempts), err, types.Fields{
				"destination": task.Destination,
				"error_type":  errorType,
			})
			return outcome
		}

		retry := attempt + 1
		e.metrics.RecordError("attempt", errorType)
		e.logger.Info(ctx, fmt.Sprintf("Retrying %s (%d/%d): %v", task.Source, retry, maxAttempts, err), types.Fields{
			"error_type": errorType,
		})

		if err := e.sleep(ctx, e.policy.Backoff(retry)); err != nil {
			outcome.State = domain.StateExhausted
			outcome.Err = err
			e.metrics.RecordError("download", "cancelled")
			e.logger.Error(ctx, fmt.Sprintf("Download failed for %s", task.Source), err, nil)
			return outcome
		}
	}
}

// attempt performs one acquire-fetch-commit-release cycle. Both handles are
// released by the deferred Close calls on every return path.
func (e *Executor) attempt(ctx context.Context, task domain.DownloadTask) (int64, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return 0, domain.ErrFetchFailed.Wrap(fmt.Errorf("rate limiter: %w", err))
		}
	}

	transfer, err := e.fetcher.NewTransfer(ctx, task.Source)
	if err != nil {
		return 0, domain.ErrTransferUnavailable.Wrap(err)
	}
	defer transfer.Close()

	dest, err := e.opener.Open(ctx, task.Destination)
	if err != nil {
		return 0, domain.ErrDestinationUnavailable.Wrap(err)
	}
	defer dest.Close()

	n, err := transfer.Fetch(dest)
	if err != nil {
		return n, domain.ErrFetchFailed.Wrap(err)
	}

	if err := dest.Commit(ctx); err != nil {
		return n, domain.ErrFetchFailed.Wrap(fmt.Errorf("%w: %w", errCommitFailed, err))
	}

	return n, nil
}

// reportSuccess counts the task and logs progress from the value the counter
// returned, so concurrent workers never report the same figure.
func (e *Executor) reportSuccess(ctx context.Context, task domain.DownloadTask, outcome domain.Outcome) {
	done := e.counter.RecordSuccess()

	e.metrics.RecordSuccess("download")
	e.metrics.RecordFileSize("html", outcome.Bytes)

	e.logger.Info(ctx, fmt.Sprintf("Downloaded %d/%d (%.2f%%): %s",
		done, e.counter.Total(), e.counter.Percentage(done), task.Source,
	), types.Fields{
		"destination": task.Destination,
		"bytes":       outcome.Bytes,
		"attempts":    outcome.Attempts,
	})
}

// categorizeError categorizes errors for metrics
func categorizeError(err error) string {
	var statusErr *httpadapter.StatusError
	switch {
	case errors.Is(err, domain.ErrTransferUnavailable), errors.Is(err, domain.ErrDestinationUnavailable):
		return "acquisition"
	case errors.Is(err, httpadapter.ErrStalled):
		return "stalled"
	case errors.Is(err, httpadapter.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.Is(err, errCommitFailed):
		return "storage"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "no such host"):
		return "connection"
	default:
		return "unknown"
	}
}
