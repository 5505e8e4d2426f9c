// Package progress tracks batch completion.
package progress

import "sync/atomic"

// Counter counts successfully completed tasks out of a fixed total.
type Counter struct {
	value atomic.Int64
	total int64
}

// NewCounter returns a counter for a batch of total tasks.
func NewCounter(total int) *Counter {
	return &Counter{total: int64(total)}
}

// RecordSuccess increments the counter and returns the new value. Callers
// must report progress from the returned value, not from a later Value call.
func (c *Counter) RecordSuccess() int64 {
	return c.value.Add(1)
}

// Percentage returns n as a percentage of the batch total.
func (c *Counter) Percentage(n int64) float64 {
	if c.total == 0 {
		return 0
	}
	return float64(n) / float64(c.total) * 100
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.value.Load()
}

// Total returns the batch size.
func (c *Counter) Total() int64 {
	return c.total
}
