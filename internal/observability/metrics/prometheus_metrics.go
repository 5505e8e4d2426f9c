// Package metrics provides Prometheus metrics for the download engine.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements types.Metrics using the Prometheus client.
// Every metric name is prefixed with the sanitized service name.
type PrometheusMetrics struct {
	serviceName string

	// processedTotal counts finished operations by status and type
	processedTotal *prometheus.CounterVec
	// errorsTotal counts failures by error category and operation
	errorsTotal *prometheus.CounterVec
	// durationSeconds tracks operation latency
	durationSeconds *prometheus.HistogramVec
	// fileSizeBytes tracks the size of stored pages
	fileSizeBytes *prometheus.HistogramVec
	// inProgress tracks operations currently running
	inProgress *prometheus.GaugeVec
}

// New creates a PrometheusMetrics instance and registers its collectors on reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
//
// Registered metrics:
//   - {name}_processed_total{status,type}
//   - {name}_errors_total{error_type,operation}
//   - {name}_duration_seconds{operation}
//   - {name}_file_size_bytes{file_type}
//   - {name}_in_progress{operation}
//
// Panics if a collector with the same name is already registered on reg.
func New(serviceName string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	prefix := SanitizeName(serviceName)
	m := &PrometheusMetrics{serviceName: serviceName}

	m.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_total", prefix),
			Help: fmt.Sprintf("Total processed items by %s", serviceName),
		},
		[]string{"status", "type"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_errors_total", prefix),
			Help: fmt.Sprintf("Total errors in %s", serviceName),
		},
		[]string{"error_type", "operation"},
	)

	// Transfers are capped at the HTTP timeout, so buckets stop at 30s.
	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_duration_seconds", prefix),
			Help:    fmt.Sprintf("Operation duration in %s", serviceName),
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)

	m.fileSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_file_size_bytes", prefix),
			Help:    fmt.Sprintf("Stored page sizes in %s", serviceName),
			Buckets: prometheus.ExponentialBuckets(1024, 10, 6), // 1KB .. 100MB
		},
		[]string{"file_type"},
	)

	m.inProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_in_progress", prefix),
			Help: fmt.Sprintf("Operations in progress in %s", serviceName),
		},
		[]string{"operation"},
	)

	reg.MustRegister(
		m.processedTotal,
		m.errorsTotal,
		m.durationSeconds,
		m.fileSizeBytes,
		m.inProgress,
	)

	return m
}

// SanitizeName turns a service or component name into a valid metric prefix.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "pagefetch"
	}
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
}

// RecordSuccess increments {name}_processed_total with status="success".
func (m *PrometheusMetrics) RecordSuccess(operationType string) {
	m.processedTotal.WithLabelValues("success", operationType).Inc()
}

// RecordError increments the processed counter with status="error" and the
// detailed error counter.
//
// Example:
//
//	metrics.RecordError("download", "stalled")
func (m *PrometheusMetrics) RecordError(operationType string, errorType string) {
	m.processedTotal.WithLabelValues("error", operationType).Inc()
	m.errorsTotal.WithLabelValues(errorType, operationType).Inc()
}

// RecordDuration observes an operation duration in seconds.
func (m *PrometheusMetrics) RecordDuration(operation string, duration float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordFileSize observes the size of a stored object.
func (m *PrometheusMetrics) RecordFileSize(fileType string, bytes int64) {
	m.fileSizeBytes.WithLabelValues(fileType).Observe(float64(bytes))
}

// StartOperation increments the in-progress gauge.
func (m *PrometheusMetrics) StartOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Inc()
}

// EndOperation decrements the in-progress gauge.
func (m *PrometheusMetrics) EndOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Dec()
}
