// Package fs stores downloaded pages as files on the local filesystem.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
)

// Storage implements domain.DestinationOpener using the local filesystem
type Storage struct {
	basePath string
	logger   types.Logger
}

// NewStorage creates filesystem storage rooted at basePath, creating the
// directory if it does not exist.
func NewStorage(basePath string, logger types.Logger) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	logger.Debug(context.Background(), "Filesystem storage initialized", types.Fields{"base_path": basePath})

	return &Storage{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// Open creates or truncates the file for key.
func (s *Storage) Open(ctx context.Context, key string) (domain.Destination, error) {
	path := s.objectPath(key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	return &file{f: f}, nil
}

// objectPath confines key to the storage root.
func (s *Storage) objectPath(key string) string {
	return filepath.Join(s.basePath, filepath.Clean(string(filepath.Separator)+key))
}

type file struct {
	f         *os.File
	closeOnce sync.Once
	closeErr  error
}

func (d *file) Write(p []byte) (int, error) {
	return d.f.Write(p)
}

// Commit flushes the file to disk.
func (d *file) Commit(ctx context.Context) error {
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", d.f.Name(), err)
	}
	return nil
}

func (d *file) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.f.Close()
	})
	return d.closeErr
}
