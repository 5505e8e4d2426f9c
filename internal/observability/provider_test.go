package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagefetch/internal/observability/types"
)

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestNewProvider(t *testing.T) {
	config := &Config{
		ServiceName: "pagefetch",
		Environment: "test",
		LogLevel:    "info",
	}

	provider := NewProvider(config)

	assert.NotNil(t, provider)
	assert.Implements(t, (*Provider)(nil), provider)
	assert.NotNil(t, provider.Registry())
}

func TestDefaultProvider_Logger(t *testing.T) {
	var buf bytes.Buffer
	provider := NewProvider(&Config{
		ServiceName: "pagefetch",
		Environment: "test",
		LogLevel:    "info",
		LogOutput:   &buf,
		AdditionalFields: types.Fields{
			"version": "1.0.0",
		},
	})
	defer provider.Close()

	logger1 := provider.Logger("executor")
	logger2 := provider.Logger("executor")
	logger3 := provider.Logger("pool")

	assert.Same(t, logger1, logger2)
	assert.NotSame(t, logger1, logger3)

	logger1.Info(context.Background(), "hello", nil)
	assert.Contains(t, buf.String(), "component=executor")
	assert.Contains(t, buf.String(), "version=1.0.0")
}

func TestDefaultProvider_Metrics(t *testing.T) {
	provider := NewProvider(&Config{ServiceName: "pagefetch"})

	metrics1 := provider.Metrics("executor")
	metrics2 := provider.Metrics("executor")
	metrics3 := provider.Metrics("pool")

	assert.Same(t, metrics1, metrics2)
	assert.NotSame(t, metrics1, metrics3)

	metrics1.RecordSuccess("download")
	families, err := provider.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "pagefetch_executor_processed_total")
}

func TestDefaultProvider_Close(t *testing.T) {
	out := &closeRecorder{}
	provider := NewProvider(&Config{ServiceName: "pagefetch", LogOutput: out})

	require.NoError(t, provider.Close())
	assert.Equal(t, 1, out.closed)
}
