// Package middleware provides the gin middleware chain of the quotes API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single HTTP request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties together requests belonging to one client action.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// RequestID returns middleware that takes X-Request-ID from the request, or
// generates a UUID v4, echoes it on the response and adds it to the request logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(HeaderRequestID, ContextKeyRequestID, logging.WithRequestID)
}

// CorrelationID does the same as RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(HeaderCorrelationID, ContextKeyCorrelationID, logging.WithCorrelationID)
}

// GetRequestID returns the request ID, or "" outside the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" outside the CorrelationID middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func idMiddleware(header, key string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}
