package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates that the analysis input is empty or malformed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCacheMiss indicates that no live cache entry exists for a key
	ErrCacheMiss = errors.New("cache miss")

	// ErrProviderUnavailable indicates that the ranking-data provider could not be reached
	ErrProviderUnavailable = errors.New("ranking provider unavailable")

	// ErrMalformedResponse indicates that the provider answered with an unusable body
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrRateLimitExceeded indicates that rate limit has been exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// ProviderError represents a failed call to one provider operation
type ProviderError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new provider operation error
func NewProviderError(operation, message string, err error) *ProviderError {
	return &ProviderError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// InvalidArgument wraps ErrInvalidArgument with a description of what was wrong
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
