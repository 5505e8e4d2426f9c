package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Provider manages configuration lifecycle and ensures singleton behavior
type Provider struct {
	config *Config
	mu     sync.RWMutex
	loaded bool
}

var (
	instance *Provider
	once     sync.Once
)

// GetProvider returns the singleton configuration provider instance
func GetProvider() *Provider {
	once.Do(func() {
		instance = &Provider{}
	})
	return instance
}

// Load loads configuration from .env files and environment variables.
// This should be called once at application startup.
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	if err := p.loadEnvFiles(); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	cfg, err := p.parseConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	p.loaded = true
	return nil
}

// MustLoad loads configuration and panics on error
func (p *Provider) MustLoad() {
	if err := p.Load(); err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
}

// Get returns the current configuration
// Returns error if configuration hasn't been loaded
func (p *Provider) Get() (*Config, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded || p.config == nil {
		return nil, fmt.Errorf("configuration not loaded; call Load() first")
	}

	return p.config, nil
}

// MustGet returns the configuration or panics if not loaded
func (p *Provider) MustGet() *Config {
	cfg, err := p.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to get configuration: %v", err))
	}
	return cfg
}

// IsLoaded returns whether configuration has been loaded
func (p *Provider) IsLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// loadEnvFiles loads .env files in order of precedence.
// Variables already present in the process environment always win over .env;
// .env.<ENVIRONMENT> and .env.local override earlier files.
func (p *Provider) loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}

// parseConfig parses configuration from environment variables
func (p *Provider) parseConfig() (*Config, error) {
	def := DefaultConfig()

	cfg := &Config{
		// Core
		Environment: getEnv("ENVIRONMENT", def.Environment),
		ServiceName: getEnv("SERVICE_NAME", def.ServiceName),
		LogLevel:    getEnv("LOG_LEVEL", def.LogLevel),
		Version:     getEnv("SERVICE_VERSION", def.Version),

		Input: InputConfig{
			URLFile: getEnv("INPUT_FILE", def.Input.URLFile),
		},

		Output: OutputConfig{
			Provider:    getEnv("OUTPUT_PROVIDER", def.Output.Provider),
			Dir:         getEnv("OUTPUT_DIR", def.Output.Dir),
			FilePattern: getEnv("OUTPUT_FILE_PATTERN", def.Output.FilePattern),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", def.Output.S3.Region),
				Bucket:          getEnv("S3_BUCKET", ""),
				Prefix:          getEnv("S3_PREFIX", ""),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				MaxRetries:      getInt("S3_MAX_RETRIES", def.Output.S3.MaxRetries),
				Timeout:         getDuration("S3_TIMEOUT", def.Output.S3.Timeout),
			},
		},

		Log: LogConfig{
			File: getEnv("LOG_FILE", def.Log.File),
		},

		// HTTP transfer
		HTTP: HTTPConfig{
			Timeout:             getDuration("HTTP_TIMEOUT", def.HTTP.Timeout),
			UserAgent:           getEnv("HTTP_USER_AGENT", def.HTTP.UserAgent),
			MaxRedirects:        getInt("HTTP_MAX_REDIRECTS", def.HTTP.MaxRedirects),
			StallMinBytesPerSec: getInt64("STALL_MIN_BYTES_PER_SEC", def.HTTP.StallMinBytesPerSec),
			StallWindow:         getDuration("STALL_WINDOW", def.HTTP.StallWindow),
		},

		// Retry
		Retry: RetryConfig{
			MaxAttempts: getInt("RETRY_MAX_ATTEMPTS", def.Retry.MaxAttempts),
			BackoffUnit: getDuration("RETRY_BACKOFF_UNIT", def.Retry.BackoffUnit),
		},

		Pool: PoolConfig{
			MinWorkers:        getInt("POOL_MIN_WORKERS", def.Pool.MinWorkers),
			TasksPerWorker:    getInt("POOL_TASKS_PER_WORKER", def.Pool.TasksPerWorker),
			ParallelismFactor: getInt("POOL_PARALLELISM_FACTOR", def.Pool.ParallelismFactor),
		},

		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloat64("RATE_LIMIT_RPS", 0),
			Burst:             getInt("RATE_LIMIT_BURST", 1),
		},

		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}
