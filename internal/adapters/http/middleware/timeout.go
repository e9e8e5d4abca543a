package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// SimpleTimeout returns middleware that sets a deadline on the request
// context. Every query issued while serving the request inherits it, so a
// stalled database surfaces as a 503 instead of a hung connection.
// Paths in skipPaths run without a deadline.
func SimpleTimeout(timeout time.Duration, skipPaths ...string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, skip := skipMap[c.Request.URL.Path]; skip || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
