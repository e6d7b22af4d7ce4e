package dto

import (
	"net/http"

	"github.com/einvoice/backend/internal/domain/shared"
)

// Codes raised by the HTTP layer itself. Domain codes come from package shared.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeUnhealthy       = "UNHEALTHY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeMissingFields: http.StatusBadRequest,
	shared.CodeInvalidInput:  http.StatusBadRequest,
	shared.CodeUnauthorized:  http.StatusUnauthorized,
	shared.CodeForbidden:     http.StatusForbidden,
	shared.CodeNotFound:      http.StatusNotFound,
	shared.CodeConflict:      http.StatusConflict,

	// authority and data failures surface as 500
	shared.CodeInvalidInvoiceType:       http.StatusInternalServerError,
	shared.CodeUpstreamSubmissionFailed: http.StatusInternalServerError,
	shared.CodeUpstreamDeleteFailed:     http.StatusInternalServerError,
	shared.CodeInsufficientStock:        http.StatusInternalServerError,
	shared.CodeInternal:                 http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeUnhealthy:       http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
