package model

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input detected before any store mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a missing folder or file. Field distinguishes which
// resource was absent ("folder" vs "file").
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found %s: %s", e.Field, e.Message)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// UnauthenticatedError reports a missing, malformed, or rejected bearer token.
type UnauthenticatedError struct {
	Message string
}

func (e UnauthenticatedError) Error() string { return e.Message }

// NewUnauthenticatedError constructs UnauthenticatedError
func NewUnauthenticatedError(message string) UnauthenticatedError {
	return UnauthenticatedError{Message: message}
}

// IsUnauthenticatedError checks if error is UnauthenticatedError
func IsUnauthenticatedError(err error) bool {
	var ue UnauthenticatedError
	return errors.As(err, &ue)
}

// StoreError wraps a failed object-store operation after any applicable retries.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e StoreError) Unwrap() error { return e.Err }

// NewStoreError constructs StoreError
func NewStoreError(op string, err error) StoreError {
	return StoreError{Op: op, Err: err}
}

// IsStoreError checks if error is StoreError
func IsStoreError(err error) bool {
	var se StoreError
	return errors.As(err, &se)
}

// UpstreamError reports a failure of the AI or search service. Message is
// safe to show to callers; the underlying cause is only logged.
type UpstreamError struct {
	Message string
	Err     error
}

func (e UpstreamError) Error() string { return e.Message }

func (e UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError constructs UpstreamError
func NewUpstreamError(message string, err error) UpstreamError {
	return UpstreamError{Message: message, Err: err}
}

// IsUpstreamError checks if error is UpstreamError
func IsUpstreamError(err error) bool {
	var ue UpstreamError
	return errors.As(err, &ue)
}
