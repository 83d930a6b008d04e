package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Session errors
	ErrTokenMissing    = errors.New("login response carried no token")
	ErrCredentialStore = errors.New("credential store failure")

	// Form errors
	ErrValidationFailed = errors.New("validation failed")
	ErrSubmitInFlight   = errors.New("a submission is already in flight")
	ErrFieldReadOnly    = errors.New("field is read-only in this mode")
)

// APIError is the uniform failure surfaced for every unsuccessful server
// interaction: non-2xx transport, a recognized error envelope, or a falsy
// envelope status on a 2xx response.
type APIError struct {
	// Status is the HTTP status code, or zero when the transport succeeded
	// but the envelope reported failure.
	Status int
	// Message is the human-readable message extracted from the envelope
	// (field-specific error > top-level message > HTTP fallback).
	Message string
	// Fields carries the envelope's per-field error map when present.
	Fields map[string]string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return "request failed"
}

// NewAPIError creates an APIError with a message
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// WithFields attaches the envelope's field-error map
func (e *APIError) WithFields(fields map[string]string) *APIError {
	e.Fields = fields
	return e
}

// AsAPIError unwraps err into an *APIError if it is one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
