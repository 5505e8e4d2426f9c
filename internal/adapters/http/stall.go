package http

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// countingReader counts bytes read so the stall watchdog can sample progress.
type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// watchStall cancels with ErrStalled when fewer than minBytesPerSec*window
// bytes arrive during any full window. The returned func stops the watchdog.
// A zero rate or window disables it.
func watchStall(ctx context.Context, cancel context.CancelCauseFunc, read *atomic.Int64, minBytesPerSec int64, window time.Duration) func() {
	if minBytesPerSec <= 0 || window <= 0 {
		return func() {}
	}

	threshold := int64(float64(minBytesPerSec) * window.Seconds())
	if threshold < 1 {
		threshold = 1
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()

		var last int64
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				current := read.Load()
				if current-last < threshold {
					cancel(ErrStalled)
					return
				}
				last = current
			}
		}
	}()

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			close(done)
		}
	}
}
