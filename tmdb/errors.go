package tmdb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrMissingCredential indicates the API key was not configured
	ErrMissingCredential = errors.New("tmdb API key is required")
	// ErrInvalidSortOrder indicates a value outside the supported sort orders
	ErrInvalidSortOrder = errors.New("invalid sort order")
	// ErrNoConnectivity indicates the network was unreachable
	ErrNoConnectivity = errors.New("no network connectivity")
	// ErrServerError indicates a non-success status or a transport failure
	ErrServerError = errors.New("tmdb request failed")
	// ErrDecode indicates the payload did not match the expected shape
	ErrDecode = errors.New("failed to decode tmdb response")
)

// APIError represents a non-success response from the remote service
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrServerError
func (e *APIError) Unwrap() error {
	return ErrServerError
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// DecodeError describes why a payload could not be decoded
type DecodeError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

// Is reports whether target is ErrDecode
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Unwrap returns the underlying parse error, if any
func (e *DecodeError) Unwrap() error {
	return e.Err
}
