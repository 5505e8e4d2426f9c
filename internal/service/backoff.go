package service

import (
	"context"
	"time"
)

// RetryPolicy bounds the attempts made for one task.
type RetryPolicy struct {
	MaxAttempts int
	BackoffUnit time.Duration
}

// DefaultRetryPolicy returns three attempts with a 100ms linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BackoffUnit: 100 * time.Millisecond,
	}
}

// Backoff returns the delay before the retry-th retry (1-based).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	if retry < 1 {
		return 0
	}
	return time.Duration(retry) * p.BackoffUnit
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
