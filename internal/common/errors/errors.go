// Package errors provides standardized error handling for the screening gateway.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeConditionNotFound   ErrorCode = "CONDITION_NOT_FOUND"
	ErrCodeConditionDisabled   ErrorCode = "CONDITION_DISABLED"
	ErrCodeUnsupportedMedia    ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeFileMissing         ErrorCode = "FILE_MISSING"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamRejected    ErrorCode = "UPSTREAM_REJECTED"
	ErrCodeMalformedResponse   ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeAuditWriteFailed    ErrorCode = "AUDIT_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Fields    map[string]string      `json:"fields,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError carries the full per-field error set so all
// problems are visible to the caller at once.
func NewValidationFailedError(fields map[string]string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Form validation failed",
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConditionNotFoundError creates a non-retryable unknown condition error.
func NewConditionNotFoundError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConditionNotFound,
		Message:   "Unknown screening condition",
		Details:   fmt.Sprintf("condition: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConditionDisabledError creates a non-retryable disabled condition error.
func NewConditionDisabledError(slug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConditionDisabled,
		Message:   "Screening condition is not enabled",
		Details:   fmt.Sprintf("condition: %s", slug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedMediaError rejects a file before any byte is forwarded.
func NewUnsupportedMediaError(contentType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedMedia,
		Message:   "Unsupported image type. Upload a PNG, JPEG, WebP, BMP or TIFF file",
		Details:   fmt.Sprintf("contentType: %s", contentType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a size-specific rejection.
func NewFileTooLargeError(size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   fmt.Sprintf("Image exceeds the %d MB limit", limit/(1<<20)),
		Details:   fmt.Sprintf("size: %d bytes, limit: %d bytes", size, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileMissingError creates a missing upload error.
func NewFileMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeFileMissing,
		Message:   "No image file provided",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError creates a retryable transport error.
func NewUpstreamUnavailableError(condition string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "Inference service is unreachable",
		Details:   fmt.Sprintf("condition: %s, error: %s", condition, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError creates a retryable timeout error.
func NewUpstreamTimeoutError(condition string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   "Inference service did not respond in time",
		Details:   fmt.Sprintf("condition: %s", condition),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamRejectedError surfaces the server-provided error message, or a
// generic fallback when the upstream body carried none.
func NewUpstreamRejectedError(condition, upstreamMessage string, status int) *StandardError {
	msg := upstreamMessage
	if msg == "" {
		msg = "Prediction failed. Please try again"
	}
	return &StandardError{
		Code:      ErrCodeUpstreamRejected,
		Message:   msg,
		Details:   fmt.Sprintf("condition: %s, status: %d", condition, status),
		Retryable: status >= 500,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable decode error.
func NewMalformedResponseError(condition string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Inference service returned an unreadable response",
		Details:   fmt.Sprintf("condition: %s, error: %s", condition, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditWriteFailedError creates a retryable persistence error.
func NewAuditWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Failed to record screening",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
