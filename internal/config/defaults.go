package config

import "time"

// DefaultHTTPConfig returns the transfer policy: 30s overall timeout and a
// 100 B/s over 10s stall guard.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:             30 * time.Second,
		UserAgent:           "pagefetch/1.0",
		MaxRedirects:        10,
		StallMinBytesPerSec: 100,
		StallWindow:         10 * time.Second,
	}
}

// DefaultRetryConfig returns sensible defaults for retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BackoffUnit: 100 * time.Millisecond,
	}
}

// DefaultPoolConfig returns the pool sizing rules
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinWorkers:        4,
		TasksPerWorker:    5,
		ParallelismFactor: 2,
	}
}

// DefaultOutputConfig writes page<N>.html files into the working directory
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Provider:    "fs",
		Dir:         ".",
		FilePattern: "page%d.html",
		S3: S3Config{
			Region:     "us-east-2",
			MaxRetries: 3,
			Timeout:    30 * time.Second,
		},
	}
}

// DefaultConfig returns a complete configuration with sensible defaults
// This is useful for testing or when you want to start with defaults and override specific parts
func DefaultConfig() *Config {
	return &Config{
		Environment: "local",
		ServiceName: "pagefetch",
		LogLevel:    "info",
		Version:     "1.0.0",

		Input:  InputConfig{URLFile: "urls.txt"},
		Output: DefaultOutputConfig(),
		Log:    LogConfig{File: "errors.log"},
		HTTP:   DefaultHTTPConfig(),
		Retry:  DefaultRetryConfig(),
		Pool:   DefaultPoolConfig(),
	}
}
