// Package observability wires the logger and metrics implementations behind
// a per-component provider.
package observability

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pagefetch/internal/observability/logger"
	"pagefetch/internal/observability/metrics"
	"pagefetch/internal/observability/types"
)

// Logger is a type alias for the Logger interface from the types package.
type Logger = types.Logger

// Metrics is a type alias for the Metrics interface from the types package.
type Metrics = types.Metrics

// Fields is a type alias for structured logging fields.
type Fields = types.Fields

// Config is a type alias for the observability configuration.
type Config = types.Config

// Provider is a type alias for the Provider interface from the types package.
type Provider = types.Provider

// DefaultProvider implements Provider. Loggers and metrics are created lazily,
// once per component, and every component's collectors share one registry.
type DefaultProvider struct {
	config   *Config
	registry *prometheus.Registry
	loggers  map[string]Logger
	metrics  map[string]Metrics
	mu       sync.RWMutex
}

// NewProvider creates a provider with its own Prometheus registry.
// If LogOutput is not specified in the config, it defaults to os.Stdout.
//
// Example:
//
//	provider := NewProvider(&Config{ServiceName: "pagefetch", LogLevel: "info", LogOutput: sink})
//	log := provider.Logger("executor")
func NewProvider(config *Config) *DefaultProvider {
	if config.LogOutput == nil {
		config.LogOutput = os.Stdout
	}

	return &DefaultProvider{
		config:   config,
		registry: prometheus.NewRegistry(),
		loggers:  make(map[string]Logger),
		metrics:  make(map[string]Metrics),
	}
}

// Registry returns the registry holding every component's collectors.
func (p *DefaultProvider) Registry() *prometheus.Registry {
	return p.registry
}

// Logger returns the Logger for component.
//
// The returned logger includes the provider's AdditionalFields and a
// "component" field.
func (p *DefaultProvider) Logger(component string) Logger {
	p.mu.RLock()
	if l, exists := p.loggers[component]; exists {
		p.mu.RUnlock()
		return l
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if l, exists := p.loggers[component]; exists {
		return l
	}

	fields := make(Fields, len(p.config.AdditionalFields)+1)
	for k, v := range p.config.AdditionalFields {
		fields[k] = v
	}
	fields["component"] = component

	var l Logger = logger.New(
		p.config.ServiceName,
		p.config.Environment,
		p.config.LogLevel,
		p.config.LogOutput,
		fields,
	)
	p.loggers[component] = l

	return l
}

// Metrics returns the Metrics collector for component. Metric names are
// prefixed with "{service}_{component}".
func (p *DefaultProvider) Metrics(component string) Metrics {
	p.mu.RLock()
	if m, exists := p.metrics[component]; exists {
		p.mu.RUnlock()
		return m
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if m, exists := p.metrics[component]; exists {
		return m
	}

	name := fmt.Sprintf("%s_%s", p.config.ServiceName, component)
	var m Metrics = metrics.New(name, p.registry)
	p.metrics[component] = m

	return m
}

// Close closes LogOutput if it is an io.Closer other than os.Stdout or os.Stderr.
func (p *DefaultProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if closer, ok := p.config.LogOutput.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}

	return nil
}
