// internal/common/errors/http.go
package errors

import (
	"errors"
	"net/http"
)

// AsStandardError unwraps err into a *StandardError, wrapping unknown errors
// into a generic upstream failure so the API always emits a structured body.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewUpstreamUnavailableError("unknown", err)
}

// HTTPStatus maps an error code to the response status for the API surface.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeConditionNotFound:
		return http.StatusNotFound
	case ErrCodeConditionDisabled:
		return http.StatusServiceUnavailable
	case ErrCodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeFileMissing:
		return http.StatusBadRequest
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrCodeUpstreamRejected:
		return http.StatusBadGateway
	case ErrCodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
