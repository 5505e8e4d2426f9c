package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Singleton(t *testing.T) {
	provider1 := GetProvider()
	provider2 := GetProvider()

	assert.Same(t, provider1, provider2, "should return same instance")
}

func TestProvider_LoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	p := &Provider{}
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, "pagefetch", cfg.ServiceName)
	assert.Equal(t, "urls.txt", cfg.Input.URLFile)
	assert.Equal(t, "errors.log", cfg.Log.File)
	assert.Equal(t, "fs", cfg.Output.Provider)
	assert.Equal(t, "page%d.html", cfg.Output.FilePattern)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, int64(100), cfg.HTTP.StallMinBytesPerSec)
	assert.Equal(t, 10*time.Second, cfg.HTTP.StallWindow)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.BackoffUnit)
	assert.Equal(t, 4, cfg.Pool.MinWorkers)
	assert.Equal(t, 5, cfg.Pool.TasksPerWorker)
	assert.Equal(t, 2, cfg.Pool.ParallelismFactor)
	assert.Zero(t, cfg.RateLimit.RequestsPerSecond)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestProvider_LoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INPUT_FILE", "list.txt")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("STALL_MIN_BYTES_PER_SEC", "512")
	t.Setenv("STALL_WINDOW", "2s")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_BACKOFF_UNIT", "250ms")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "0")
	t.Setenv("OUTPUT_PROVIDER", "S3")
	t.Setenv("S3_BUCKET", "pages")

	p := &Provider{}
	require.NoError(t, p.Load())
	cfg := p.MustGet()

	assert.Equal(t, "list.txt", cfg.Input.URLFile)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, int64(512), cfg.HTTP.StallMinBytesPerSec)
	assert.Equal(t, 2*time.Second, cfg.HTTP.StallWindow)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BackoffUnit)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1, cfg.RateLimit.Burst, "burst is raised to 1 when pacing is on")
	assert.Equal(t, "s3", cfg.Output.Provider)
	assert.Equal(t, "pages", cfg.Output.S3.Bucket)
	assert.Equal(t, 5*time.Second, cfg.Output.S3.Timeout)
}

func TestProvider_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("RETRY_MAX_ATTEMPTS", "three")

	p := &Provider{}
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestProvider_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INPUT_FILE=from-env.txt\nLOG_FILE=base.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("LOG_FILE=local.log\n"), 0o644))

	// godotenv writes into the process environment; make sure t.Setenv restores it.
	t.Setenv("INPUT_FILE", "")
	t.Setenv("LOG_FILE", "")
	os.Unsetenv("INPUT_FILE")
	os.Unsetenv("LOG_FILE")

	p := &Provider{}
	require.NoError(t, p.Load())

	cfg := p.MustGet()
	assert.Equal(t, "from-env.txt", cfg.Input.URLFile)
	assert.Equal(t, "local.log", cfg.Log.File, ".env.local overrides .env")
}

func TestProvider_GetBeforeLoad(t *testing.T) {
	p := &Provider{}

	cfg, err := p.Get()
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.False(t, p.IsLoaded())
	assert.Panics(t, func() { p.MustGet() })
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:     "s3 without bucket",
			mutate:   func(c *Config) { c.Output.Provider = "s3" },
			contains: "S3_BUCKET is required",
		},
		{
			name:     "unknown provider",
			mutate:   func(c *Config) { c.Output.Provider = "ftp" },
			contains: "unsupported OUTPUT_PROVIDER",
		},
		{
			name:     "pattern without index",
			mutate:   func(c *Config) { c.Output.FilePattern = "page.html" },
			contains: "OUTPUT_FILE_PATTERN",
		},
		{
			name:     "zero attempts",
			mutate:   func(c *Config) { c.Retry.MaxAttempts = 0 },
			contains: "RETRY_MAX_ATTEMPTS",
		},
		{
			name:     "non-positive timeout",
			mutate:   func(c *Config) { c.HTTP.Timeout = 0 },
			contains: "HTTP_TIMEOUT",
		},
		{
			name: "collects every error",
			mutate: func(c *Config) {
				c.Pool.MinWorkers = 0
				c.Pool.TasksPerWorker = 0
			},
			contains: "POOL_MIN_WORKERS must be at least 1; POOL_TASKS_PER_WORKER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.contains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestConfig_Environment(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsLocal())
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "PROD"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsLocal())
}
