package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"pagefetch/internal/observability/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestZeroLogger_LogLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*ZeroLogger, context.Context)
		shouldLog bool
	}{
		{
			name:      "debug level logs debug",
			logLevel:  "debug",
			logMethod: func(l *ZeroLogger, ctx context.Context) { l.Debug(ctx, "test", nil) },
			shouldLog: true,
		},
		{
			name:      "info level skips debug",
			logLevel:  "info",
			logMethod: func(l *ZeroLogger, ctx context.Context) { l.Debug(ctx, "test", nil) },
			shouldLog: false,
		},
		{
			name:      "info level logs info",
			logLevel:  "info",
			logMethod: func(l *ZeroLogger, ctx context.Context) { l.Info(ctx, "test", nil) },
			shouldLog: true,
		},
		{
			name:      "error level skips warn",
			logLevel:  "error",
			logMethod: func(l *ZeroLogger, ctx context.Context) { l.Warn(ctx, "test", nil) },
			shouldLog: false,
		},
		{
			name:      "error level logs error",
			logLevel:  "error",
			logMethod: func(l *ZeroLogger, ctx context.Context) { l.Error(ctx, "test", nil, nil) },
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New("test", "test", tt.logLevel, &buf, nil)

			tt.logMethod(l, context.Background())

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestZeroLogger_FreeTextLine(t *testing.T) {
	var buf bytes.Buffer
	l := New("pagefetch", "local", "info", &buf, types.Fields{"version": "1.0.0"})

	l.Info(context.Background(), "Downloaded 1/2 (50.00%): https://example.com", types.Fields{"worker": 3})

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "\n"), "one entry is one line")
	assert.Contains(t, line, "INF")
	assert.Contains(t, line, "Downloaded 1/2 (50.00%): https://example.com")
	assert.Contains(t, line, "service=pagefetch")
	assert.Contains(t, line, "version=1.0.0")
	assert.Contains(t, line, "worker=3")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(line), "{"), "console format, not JSON")
}

func TestZeroLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := New("pagefetch", "local", "info", &buf, nil)

	l.Error(context.Background(), "Download failed for https://example.com", errors.New("connection refused"), nil)

	line := buf.String()
	assert.Contains(t, line, "ERR")
	assert.Contains(t, line, "Download failed for https://example.com")
	assert.Contains(t, line, "connection refused")
}

func TestZeroLogger_ContextIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	l := New("pagefetch", "", "info", &buf, nil)

	ctx := types.WithRunID(context.Background(), "run-123")
	ctx = types.WithWorkerID(ctx, 2)
	l.Info(ctx, "hello", nil)

	assert.Contains(t, buf.String(), "run_id=run-123")
	assert.Contains(t, buf.String(), "worker_id=2")
}

func TestZeroLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New("pagefetch", "", "info", &buf, nil)

	child := base.WithFields(types.Fields{"component": "executor"})
	child.Info(context.Background(), "child", nil)
	base.Info(context.Background(), "parent", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "component=executor")
	assert.NotContains(t, lines[1], "component=executor")
	assert.Same(t, base, base.WithFields(nil))
}
