package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// redactedQueryParams are query parameters whose values never reach the logs.
var redactedQueryParams = []string{QueryAPIKey}

// RequestLogger installs logger as the request logger unless the request
// context already carries one, e.g. from the server's base context.
// Later middleware enriches whichever logger ends up in the context.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.Request = c.Request.WithContext(logging.WithContext(ctx, logging.FromContextOr(ctx, logger)))
		c.Next()
	}
}

// Logging returns middleware that logs HTTP requests.
// It logs:
//   - Request start: method, path, client address
//   - Request completion: status, latency, bytes written
//
// Requests log through the context logger, falling back to logger.
// Operational paths (starting with /-/) and any extra skipPaths are not logged.
// The api-key query parameter is redacted.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, skip := skipMap[path]; skip || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		if query := redactQuery(c.Request.URL.RawQuery); query != "" {
			path = path + "?" + query
		}

		// Enriched with request_id and correlation_id by the ID middleware.
		ctxLogger := logging.FromContextOr(c.Request.Context(), logger)

		ctxLogger.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		ctxLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// redactQuery masks sensitive parameter values in a raw query string.
// Unparseable queries are dropped entirely.
func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}

	changed := false

	for _, name := range redactedQueryParams {
		if values.Has(name) {
			values.Set(name, "[REDACTED]")
			changed = true
		}
	}

	if !changed {
		return raw
	}

	return values.Encode()
}
