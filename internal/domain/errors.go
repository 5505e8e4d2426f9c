package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code      string
	Message   string
	Err       error
	Retryable bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so wrapped instances
// compare equal to the package sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error, retryable bool) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// Wrap returns a copy of the sentinel e carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	return NewDomainError(e.Code, e.Message, err, e.Retryable)
}

// Common domain errors
var (
	ErrInvalidURL = &DomainError{
		Code:      "INVALID_URL",
		Message:   "The provided URL is invalid",
		Retryable: false,
	}

	ErrTransferUnavailable = &DomainError{
		Code:      "TRANSFER_UNAVAILABLE",
		Message:   "Failed to create transfer handle",
		Retryable: false,
	}

	ErrDestinationUnavailable = &DomainError{
		Code:      "DESTINATION_UNAVAILABLE",
		Message:   "Failed to open output destination",
		Retryable: false,
	}

	ErrFetchFailed = &DomainError{
		Code:      "FETCH_FAILED",
		Message:   "Failed to download page",
		Retryable: true,
	}

	ErrNoValidURLs = &DomainError{
		Code:      "NO_VALID_URLS",
		Message:   "No valid URLs found.",
		Retryable: false,
	}
)

// IsRetryable reports whether err is a DomainError marked retryable.
func IsRetryable(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}
