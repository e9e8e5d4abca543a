package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics.
// On panic, it:
//   - Logs the error with full stack trace at ERROR level
//   - Returns a 500 Internal Server Error with standard error envelope
//   - Includes traceId in the response when the request is traced
//
// This middleware should be applied first in the chain to catch panics
// from all subsequent handlers and middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithHandler(logger, nil)
}

// RecoveryWithHandler is Recovery with an extra callback that receives the
// panic value and stack, e.g. for a crash reporter or a test.
func RecoveryWithHandler(logger *slog.Logger, onPanic func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			if onPanic != nil {
				onPanic(r, stack)
			}

			// The request logger already carries request_id and correlation_id.
			logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(stack)),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", dto.GetTraceID(c)),
			)

			dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
		}()

		c.Next()
	}
}
