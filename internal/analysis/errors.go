package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes failures while talking to the analysis service.
type ErrorType string

const (
	// ErrTypeValidation indicates a local precondition failure; nothing was
	// sent over the network.
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeSubmission indicates the upload was rejected or failed.
	ErrTypeSubmission ErrorType = "submission"

	// ErrTypePolling indicates a single status query failed.
	ErrTypePolling ErrorType = "polling"

	// ErrTypeTimeout indicates the polling attempt ceiling was exhausted.
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeNetwork indicates the request could not complete at all.
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeInternal indicates a client-side failure such as an
	// unreadable response body.
	ErrTypeInternal ErrorType = "internal"
)

// ClientError is the error type returned by the analysis client and the
// session layer built on top of it.
type ClientError struct {
	// Type categorizes the error.
	Type ErrorType `json:"type"`

	// Message is the user-facing description. For server-rejected uploads
	// it carries the server's own message verbatim.
	Message string `json:"message"`

	// StatusCode for HTTP-level failures.
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("type=%s", e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches on error type, so errors.Is can compare against a bare
// &ClientError{Type: ...} template.
func (e *ClientError) Is(target error) bool {
	if ce, ok := target.(*ClientError); ok {
		return e.Type == ce.Type
	}
	return false
}

// NewClientError creates an error of the given type.
func NewClientError(errType ErrorType, message string) *ClientError {
	return &ClientError{Type: errType, Message: message}
}

// NewClientErrorWithCause creates an error wrapping an underlying cause.
func NewClientErrorWithCause(errType ErrorType, message string, cause error) *ClientError {
	return &ClientError{Type: errType, Message: message, Cause: cause}
}

// NewHTTPError creates an error carrying the offending status code.
func NewHTTPError(errType ErrorType, message string, statusCode int) *ClientError {
	return &ClientError{Type: errType, Message: message, StatusCode: statusCode}
}

// TypeOf extracts the error type, or ErrTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeInternal
}

// UserMessage extracts the user-facing message from a client error, falling
// back to the plain Error() string for foreign errors.
func UserMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsValidationError checks for local precondition failures.
func IsValidationError(err error) bool {
	return TypeOf(err) == ErrTypeValidation
}

// IsSubmissionError checks for rejected or failed uploads.
func IsSubmissionError(err error) bool {
	return TypeOf(err) == ErrTypeSubmission
}

// IsPollingError checks for individual status query failures.
func IsPollingError(err error) bool {
	return TypeOf(err) == ErrTypePolling
}

// IsTimeoutError checks for attempt-ceiling exhaustion.
func IsTimeoutError(err error) bool {
	return TypeOf(err) == ErrTypeTimeout
}
