// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "net/http"

// ErrorResponse is the error envelope for all error responses.
// Error maps the status text of the failure to a human-readable message,
// e.g. {"error": {"Not Found": "..."}}. Validation failures add one entry
// per offending field.
type ErrorResponse struct {
	Error   map[string]string `json:"error"`
	TraceID string            `json:"traceId,omitempty"`
}

// Error codes. Each is the status text of the HTTP status it maps to.
const (
	ErrorCodeNotFound     = "Not Found"
	ErrorCodeConflict     = "Conflict"
	ErrorCodeBadRequest   = "Bad Request"
	ErrorCodeForbidden    = "Forbidden"
	ErrorCodeUnauthorized = "Unauthorized"
	ErrorCodeUnavailable  = "Service Unavailable"
	ErrorCodeInternal     = "Internal Server Error"
	ErrorCodeTimeout      = "Gateway Timeout"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: map[string]string{code: message},
	}
}

// NewErrorResponseWithDetails creates an error response with additional per-field messages.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	for field, msg := range details {
		if field == code {
			continue
		}

		resp.Error[field] = msg
	}

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
