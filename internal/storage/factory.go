// Package storage selects the output destination for downloaded pages.
package storage

import (
	"context"
	"fmt"

	"pagefetch/internal/config"
	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
	"pagefetch/internal/storage/adapters/fs"
	"pagefetch/internal/storage/adapters/s3"
)

const (
	ProviderFS = "fs"
	ProviderS3 = "s3"
)

// New returns the destination opener for cfg.Provider.
func New(ctx context.Context, cfg config.OutputConfig, logger types.Logger, metrics types.Metrics) (domain.DestinationOpener, error) {
	switch cfg.Provider {
	case ProviderFS, "":
		storage, err := fs.NewStorage(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		return storage, nil
	case ProviderS3:
		storage, err := s3.NewStorage(ctx, cfg.S3, logger, metrics)
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
