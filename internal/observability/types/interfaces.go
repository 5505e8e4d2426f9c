// Package types holds the observability contracts shared by every pagefetch
// component. Concrete implementations live in the logger and metrics packages;
// everything else depends only on these interfaces.
package types

import (
	"context"
	"io"
)

// Logger defines the contract for leveled, context-aware logging.
// Implementations write one human-readable line per entry so the same stream
// can be shown on a console and appended to a log file.
type Logger interface {
	// Info logs an informational message.
	// Progress, retries and skipped input are reported at this level.
	//
	// Parameters:
	//   - ctx: Context carrying run and worker identifiers
	//   - msg: The log message describing the event
	//   - fields: Additional structured fields for context
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs an error message with the associated error.
	// Use for terminal task failures and startup failures.
	//
	// Parameters:
	//   - ctx: Context carrying run and worker identifiers
	//   - msg: The log message describing the error context
	//   - err: The error object to be logged, may be nil
	//   - fields: Additional structured fields for context
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a warning message.
	//
	// Parameters:
	//   - ctx: Context carrying run and worker identifiers
	//   - msg: The log message describing the warning
	//   - fields: Additional structured fields for context
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs a debug message.
	// These messages are filtered out unless LOG_LEVEL is debug.
	//
	// Parameters:
	//   - ctx: Context carrying run and worker identifiers
	//   - msg: The log message with debugging information
	//   - fields: Additional structured fields for context
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger that adds fields to every entry.
	//
	// Parameters:
	//   - fields: Fields to be included in all log entries from the returned logger
	//
	// Returns:
	//   - A new Logger instance with the additional fields
	WithFields(fields Fields) Logger
}

// Metrics defines the contract for metrics collection.
// Implementations are expected to be Prometheus-compatible.
type Metrics interface {
	// RecordSuccess increments the success counter for an operation type.
	//
	// Parameters:
	//   - operationType: The type of operation that succeeded (e.g., "download")
	RecordSuccess(operationType string)

	// RecordError increments the error counter for an operation and error type.
	//
	// Parameters:
	//   - operationType: The type of operation that failed (e.g., "download")
	//   - errorType: The category of error (e.g., "timeout", "stalled", "http_status")
	RecordError(operationType string, errorType string)

	// RecordDuration records the duration of an operation in seconds.
	//
	// Parameters:
	//   - operation: The name of the operation being measured
	//   - duration: The duration in seconds (use time.Since(start).Seconds())
	RecordDuration(operation string, duration float64)

	// RecordFileSize records the size of a stored page in bytes.
	//
	// Parameters:
	//   - fileType: The kind of object stored (e.g., "html")
	//   - bytes: The size in bytes
	RecordFileSize(fileType string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Must be paired with EndOperation.
	//
	// Parameters:
	//   - operation: The name of the operation starting
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	// Call it from a defer so it runs on every exit path.
	//
	// Parameters:
	//   - operation: The name of the operation ending
	EndOperation(operation string)
}

// Fields represents structured logging fields as key-value pairs.
//
// Example:
//
//	fields := Fields{
//		"url":     "https://example.com",
//		"attempt": 2,
//	}
type Fields map[string]interface{}

// Config holds observability configuration for the provider.
type Config struct {
	// ServiceName identifies the service in logs and prefixes metric names.
	ServiceName string

	// Environment specifies the deployment environment ("local", "production", ...).
	Environment string

	// LogLevel sets the minimum log level to output.
	// Valid values: "debug", "info", "warn", "error".
	LogLevel string

	// LogOutput specifies where log lines are written.
	// If nil, defaults to os.Stdout. If it implements io.Closer it is closed
	// together with the provider.
	LogOutput io.Writer

	// AdditionalFields are fields included in every log entry.
	AdditionalFields Fields
}

// Provider manages the lifecycle of observability components.
// Each component gets its own Logger and Metrics instances.
type Provider interface {
	// Logger returns the Logger for the specified component.
	// Multiple calls with the same component name return the same instance.
	Logger(component string) Logger

	// Metrics returns the Metrics collector for the specified component.
	// Multiple calls with the same component name return the same instance.
	Metrics(component string) Metrics

	// Close releases the log output.
	Close() error
}
