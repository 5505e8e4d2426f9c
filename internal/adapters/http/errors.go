package http

import (
	"errors"
	"fmt"
)

var (
	// ErrStalled is the cancellation cause when throughput drops below the
	// configured minimum for a whole window.
	ErrStalled = errors.New("transfer stalled")
	// ErrTimeout is the cancellation cause when a transfer exceeds its deadline.
	ErrTimeout = errors.New("transfer timed out")
	// ErrTooManyRedirects is returned when the redirect chain exceeds the cap.
	ErrTooManyRedirects = errors.New("too many redirects")

	errTransferUsed = errors.New("transfer already used")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status code: %d", e.Code)
}

// Error wrapping functions with context
func ErrRequestCreation(err error) error {
	return fmt.Errorf("failed to create HTTP request: %w", err)
}

func ErrHTTPRequest(err error) error {
	return fmt.Errorf("HTTP request failed: %w", err)
}

func ErrReadResponse(err error) error {
	return fmt.Errorf("failed to read response: %w", err)
}
