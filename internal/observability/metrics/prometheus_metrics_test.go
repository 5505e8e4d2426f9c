package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()

	metrics := New("test-service", reg)

	assert.NotNil(t, metrics)
	assert.Equal(t, "test-service", metrics.serviceName)

	metrics.RecordSuccess("download")
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	assert.Equal(t, "test_service_processed_total", families[0].GetName())
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New("dup", reg)

	assert.Panics(t, func() { New("dup", reg) })
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pagefetch", "pagefetch"},
		{"pagefetch.executor", "pagefetch_executor"},
		{"page-fetch worker", "page_fetch_worker"},
		{"  ", "pagefetch"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestPrometheusMetrics_RecordSuccess(t *testing.T) {
	metrics := New("test", prometheus.NewRegistry())

	metrics.RecordSuccess("download")
	metrics.RecordSuccess("download")
	metrics.RecordSuccess("task")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.processedTotal.WithLabelValues("success", "download")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.processedTotal.WithLabelValues("success", "task")))
}

func TestPrometheusMetrics_RecordError(t *testing.T) {
	metrics := New("test", prometheus.NewRegistry())

	metrics.RecordError("download", "timeout")
	metrics.RecordError("download", "timeout")
	metrics.RecordError("download", "stalled")

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.processedTotal.WithLabelValues("error", "download")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.errorsTotal.WithLabelValues("timeout", "download")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.errorsTotal.WithLabelValues("stalled", "download")))
}

func TestPrometheusMetrics_Operations(t *testing.T) {
	metrics := New("test", prometheus.NewRegistry())

	metrics.StartOperation("download")
	metrics.StartOperation("download")
	metrics.StartOperation("task")
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.inProgress.WithLabelValues("download")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.inProgress.WithLabelValues("task")))

	metrics.EndOperation("download")
	metrics.EndOperation("task")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.inProgress.WithLabelValues("download")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.inProgress.WithLabelValues("task")))
}

func TestPrometheusMetrics_Histograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := New("test", reg)

	metrics.RecordDuration("download", 0.3)
	metrics.RecordDuration("download", 1.2)
	metrics.RecordFileSize("html", 4096)

	assert.Equal(t, 2, testutil.CollectAndCount(metrics.durationSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.fileSizeBytes))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := New("pagefetch", reg)
	metrics.RecordSuccess("download")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `pagefetch_processed_total{status="success",type="download"} 1`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_InvalidAddress(t *testing.T) {
	err := Serve(context.Background(), "256.0.0.1:bad", prometheus.NewRegistry())
	assert.Error(t, err)
}
