package types

import "context"

type contextKey int

const (
	runIDKey contextKey = iota
	workerIDKey
)

// WithRunID returns a context tagged with the batch run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier set by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok
}

// WithWorkerID returns a context tagged with the worker executing a task.
func WithWorkerID(ctx context.Context, workerID int) context.Context {
	return context.WithValue(ctx, workerIDKey, workerID)
}

// WorkerIDFromContext returns the worker identifier set by WithWorkerID.
func WorkerIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(workerIDKey).(int)
	return id, ok
}
