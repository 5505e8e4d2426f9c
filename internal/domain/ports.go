package domain

import (
	"context"
	"io"
)

// Fetcher creates transfer handles. One handle serves exactly one attempt.
type Fetcher interface {
	NewTransfer(ctx context.Context, url string) (Transfer, error)
}

// Transfer performs a single fetch of its URL.
type Transfer interface {
	// Fetch streams the response body into w and returns the bytes written.
	Fetch(w io.Writer) (int64, error)
	Close() error
}

// DestinationOpener creates output handles by storage key.
type DestinationOpener interface {
	Open(ctx context.Context, key string) (Destination, error)
}

// Destination receives one page body. Commit makes the written content
// durable; Close releases the handle and must be safe after Commit.
type Destination interface {
	io.Writer
	Commit(ctx context.Context) error
	Close() error
}
