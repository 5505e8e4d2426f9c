package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	LogLevel    string
	Version     string

	// Component configurations
	Input     InputConfig
	Output    OutputConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Retry     RetryConfig
	Pool      PoolConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

// InputConfig describes where the URL list is read from
type InputConfig struct {
	URLFile string
}

// OutputConfig selects the destination for downloaded pages
type OutputConfig struct {
	Provider    string // "fs" or "s3"
	Dir         string
	FilePattern string // fmt pattern taking the 1-based URL index
	S3          S3Config
}

// S3Config holds S3 destination configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string // custom endpoint, e.g. MinIO or LocalStack
	AccessKeyID     string
	SecretAccessKey string
	MaxRetries      int
	Timeout         time.Duration
}

// LogConfig holds the persisted log settings
type LogConfig struct {
	File string
}

// HTTPConfig holds HTTP transfer configuration
type HTTPConfig struct {
	Timeout             time.Duration
	UserAgent           string
	MaxRedirects        int
	StallMinBytesPerSec int64
	StallWindow         time.Duration
}

// RetryConfig holds the per-task retry policy
type RetryConfig struct {
	MaxAttempts int
	BackoffUnit time.Duration
}

// PoolConfig holds the worker pool sizing rules
type PoolConfig struct {
	MinWorkers        int
	TasksPerWorker    int
	ParallelismFactor int
}

// RateLimitConfig paces attempts across the whole pool. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// MetricsConfig controls the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errors []string

	if c.ServiceName == "" {
		errors = append(errors, "SERVICE_NAME is required")
	}
	if c.Input.URLFile == "" {
		errors = append(errors, "INPUT_FILE is required")
	}
	if c.Log.File == "" {
		errors = append(errors, "LOG_FILE is required")
	}

	switch c.Output.Provider {
	case "fs":
	case "s3":
		if c.Output.S3.Bucket == "" {
			errors = append(errors, "S3_BUCKET is required when OUTPUT_PROVIDER is s3")
		}
	default:
		errors = append(errors, fmt.Sprintf("unsupported OUTPUT_PROVIDER %q", c.Output.Provider))
	}
	if !strings.Contains(c.Output.FilePattern, "%d") {
		errors = append(errors, "OUTPUT_FILE_PATTERN must contain %d")
	}

	// Range validations
	if c.HTTP.Timeout <= 0 {
		errors = append(errors, "HTTP_TIMEOUT must be positive")
	}
	if c.HTTP.MaxRedirects < 0 {
		errors = append(errors, "HTTP_MAX_REDIRECTS cannot be negative")
	}
	if c.HTTP.StallMinBytesPerSec < 0 {
		errors = append(errors, "STALL_MIN_BYTES_PER_SEC cannot be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		errors = append(errors, "RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.Retry.BackoffUnit < 0 {
		errors = append(errors, "RETRY_BACKOFF_UNIT cannot be negative")
	}
	if c.Pool.MinWorkers < 1 {
		errors = append(errors, "POOL_MIN_WORKERS must be at least 1")
	}
	if c.Pool.TasksPerWorker < 1 {
		errors = append(errors, "POOL_TASKS_PER_WORKER must be at least 1")
	}
	if c.Pool.ParallelismFactor < 1 {
		errors = append(errors, "POOL_PARALLELISM_FACTOR must be at least 1")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		errors = append(errors, "RATE_LIMIT_RPS cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// applyDefaults fills values that depend on other settings
func (c *Config) applyDefaults() {
	c.Output.Provider = strings.ToLower(strings.TrimSpace(c.Output.Provider))
	if c.Output.Provider == "" {
		c.Output.Provider = "fs"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = 1
	}
	if c.Output.S3.Timeout <= 0 {
		c.Output.S3.Timeout = c.HTTP.Timeout
	}
}

// IsLocal returns true if running in local/development environment
func (c *Config) IsLocal() bool {
	env := strings.ToLower(c.Environment)
	return env == "local" || env == "development" || env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}
