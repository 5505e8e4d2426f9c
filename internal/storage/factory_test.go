package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pagefetch/internal/config"
	"pagefetch/internal/observability/mocks"
	"pagefetch/internal/storage/adapters/fs"
	"pagefetch/internal/storage/adapters/s3"
)

func TestNew(t *testing.T) {
	logger := &mocks.MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	metrics := (&mocks.MockMetrics{}).AllowAll()

	t.Run("fs", func(t *testing.T) {
		cfg := config.DefaultOutputConfig()
		cfg.Dir = filepath.Join(t.TempDir(), "pages")

		opener, err := New(context.Background(), cfg, logger, metrics)

		require.NoError(t, err)
		assert.IsType(t, &fs.Storage{}, opener)
	})

	t.Run("s3", func(t *testing.T) {
		cfg := config.DefaultOutputConfig()
		cfg.Provider = ProviderS3
		cfg.S3.Bucket = "pages"
		cfg.S3.AccessKeyID = "key"
		cfg.S3.SecretAccessKey = "secret"

		opener, err := New(context.Background(), cfg, logger, metrics)

		require.NoError(t, err)
		assert.IsType(t, &s3.Storage{}, opener)
	})

	t.Run("unsupported", func(t *testing.T) {
		cfg := config.DefaultOutputConfig()
		cfg.Provider = "ftp"

		opener, err := New(context.Background(), cfg, logger, metrics)

		assert.Nil(t, opener)
		assert.Error(t, err)
	})
}
