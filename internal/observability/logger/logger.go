// Package logger provides the zerolog-backed Logger used by pagefetch.
// Entries are rendered as single free-text lines (timestamp, level, message,
// then key=value fields) so the console and the persisted log read the same.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pagefetch/internal/observability/types"
)

// ParseLevel converts a string representation to a zerolog level.
// Unrecognized or empty levels default to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZeroLogger implements types.Logger on top of zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// New creates a ZeroLogger writing human-readable lines to output.
// If output is nil, it defaults to os.Stdout.
//
// Parameters:
//   - serviceName: Name of the service for identification in logs
//   - environment: Deployment environment (e.g., "local", "production")
//   - logLevel: Minimum log level to output ("debug", "info", "warn", "error")
//   - output: Where to write log lines
//   - additionalFields: Fields to include in every log entry
//
// Example:
//
//	log := New("pagefetch", "local", "info", os.Stdout, types.Fields{"version": "1.0.0"})
//	log.Info(ctx, "Download complete! 3 pages downloaded.", nil)
func New(serviceName, environment, logLevel string, output io.Writer, additionalFields types.Fields) *ZeroLogger {
	if output == nil {
		output = os.Stdout
	}

	console := zerolog.ConsoleWriter{
		Out:        output,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}

	ctx := zerolog.New(console).
		Level(ParseLevel(logLevel)).
		With().
		Timestamp().
		Str("service", serviceName)
	if environment != "" {
		ctx = ctx.Str("env", environment)
	}
	if len(additionalFields) > 0 {
		ctx = ctx.Fields(map[string]interface{}(additionalFields))
	}

	return &ZeroLogger{zl: ctx.Logger()}
}

// Info logs an informational message.
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Info(), msg, fields)
}

// Error logs an error message. err may be nil.
func (l *ZeroLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	event := l.zl.Error()
	if err != nil {
		event = event.Err(err)
	}
	l.write(ctx, event, msg, fields)
}

// Warn logs a warning message.
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Warn(), msg, fields)
}

// Debug logs a debug message.
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Debug(), msg, fields)
}

// WithFields returns a child logger that adds fields to every entry.
//
// Example:
//
//	taskLog := log.WithFields(types.Fields{"url": task.Source})
//	taskLog.Debug(ctx, "attempt started", nil)
func (l *ZeroLogger) WithFields(fields types.Fields) types.Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZeroLogger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger()}
}

// write attaches context identifiers and call fields, then emits the event.
// A nil event means the level is disabled.
func (l *ZeroLogger) write(ctx context.Context, event *zerolog.Event, msg string, fields types.Fields) {
	if event == nil {
		return
	}
	if ctx != nil {
		if runID, ok := types.RunIDFromContext(ctx); ok {
			event = event.Str("run_id", runID)
		}
		if workerID, ok := types.WorkerIDFromContext(ctx); ok {
			event = event.Int("worker_id", workerID)
		}
	}
	if len(fields) > 0 {
		event = event.Fields(map[string]interface{}(fields))
	}
	event.Msg(msg)
}
