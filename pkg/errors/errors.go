// Package errors provides structured error handling for the application.
// Every error carries a stable machine-readable code so API clients can
// distinguish failure kinds programmatically instead of parsing messages.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents a stable error code exposed to API clients.
type ErrorCode string

const (
	// Client errors (4xx)
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"

	// Credit gating
	CodeQuotaExhausted ErrorCode = "QUOTA_EXHAUSTED"

	// AI pipeline failures (5xx)
	CodeGenerationFailed    ErrorCode = "GENERATION_FAILED"
	CodeNormalizationFailed ErrorCode = "NORMALIZATION_FAILED"
	CodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	CodePersistenceFailed   ErrorCode = "PERSISTENCE_FAILED"

	// Generic server errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// AppError represents an application error with structured information.
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code for the error.
// Credit denial maps to 403, matching the wire contract of the mobile
// clients; it is a hard quota, not a retry-after rate limit.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeQuotaExhausted:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error.
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewInvalidInput creates an error for a caller-supplied request missing or
// malforming required fields.
func NewInvalidInput(details string) *AppError {
	return New(CodeInvalidInput, "Invalid request", details)
}

// NewUnauthorized creates an unauthorized error.
func NewUnauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(CodeUnauthorized, message, "")
}

// NewNotFound creates a not found error with the given message.
func NewNotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return New(CodeNotFound, message, "")
}

// NewConflict creates a conflict error.
func NewConflict(message string) *AppError {
	return New(CodeConflict, message, "")
}

// NewInternal creates an internal server error.
func NewInternal(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message, "")
}

// NewQuotaExhausted creates the credit-denied error. No resources were
// consumed beyond the ledger check itself.
func NewQuotaExhausted(identity string) *AppError {
	return New(
		CodeQuotaExhausted,
		"Credits exhausted",
		"Credits exhausted. Please request more credits.",
	).WithMetadata("identity", identity)
}

// NewGenerationFailed wraps an external provider error or timeout.
func NewGenerationFailed(cause error) *AppError {
	return New(
		CodeGenerationFailed,
		"Generation failed",
		"The AI provider call failed",
	).WithCause(cause)
}

// NewNormalizationFailed marks unparseable or wrong-top-level-kind AI output.
func NewNormalizationFailed(details string, cause error) *AppError {
	return New(CodeNormalizationFailed, "AI output could not be normalized", details).WithCause(cause)
}

// NewValidationFailed marks parseable but schema-nonconforming AI output.
// The details always name the offending field.
func NewValidationFailed(field, details string) *AppError {
	return New(CodeValidationFailed, "AI output failed validation", details).
		WithMetadata("field", field)
}

// NewPersistenceFailed marks a validated result that could not be stored.
// Generation succeeded; the caller should not resubmit blindly.
func NewPersistenceFailed(cause error) *AppError {
	return New(
		CodePersistenceFailed,
		"Failed to store generated result",
		"Generation succeeded but the result could not be saved",
	).WithCause(cause)
}

// NewDatabaseError creates a database error.
func NewDatabaseError(operation string, cause error) *AppError {
	return New(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Wrap wraps an error as an internal error if it's not already an AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal(message).WithCause(err)
}

// Is checks if an error carries a specific error code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents an API error response body.
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses.
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response.
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
