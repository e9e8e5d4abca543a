package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// internalErrorMessage is the only detail a 500 response carries.
const internalErrorMessage = "an internal error occurred"

// GetTraceID returns the ID of the active OpenTelemetry trace, or "" when
// the request is not being traced.
func GetTraceID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return ""
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			return http.StatusBadRequest, NewErrorResponseWithDetails(
				ErrorCodeBadRequest,
				validationErr.Error(),
				map[string]string{validationErr.Field: validationErr.Message},
			)
		}

		return http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, err.Error())

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, internalErrorMessage)
	}
}

// HandleError writes the response for err. Internal errors are logged with
// full detail since the client only sees a generic message.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.Any("error", err),
			slog.String("path", c.FullPath()),
		)
	}

	c.JSON(status, errResp)
}

// HandleBindingError writes a 400 for a failed BindFormAndValidate or
// BindQueryAndValidate call, listing the offending fields when known.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, ValidationErrors(err))
		return
	}

	if domain.IsValidation(err) {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, "malformed request").WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(ErrorCodeBadRequest, "request validation failed", fieldErrors)

	c.JSON(http.StatusBadRequest, errResp.WithTraceID(GetTraceID(c)))
}

// AbortWithError aborts the request chain and writes an error response.
// Use this in middleware when you want to stop further processing.
func AbortWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)

	c.AbortWithStatusJSON(status, errResp.WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(HTTPStatusFromCode(code), errResp)
}
