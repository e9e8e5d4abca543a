package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/platform/config"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

const (
	// QueryAPIKey is the query parameter carrying the shared secret.
	QueryAPIKey = "api-key"

	// MsgForbidden is returned when the shared secret is missing or wrong.
	MsgForbidden = "Sorry, that's not allowed. Make sure you have the correct api_key."
)

// RequireAPIKey returns middleware that rejects requests whose api-key
// query parameter does not match the configured secret. It runs before
// the handler, so a bad key is reported even for ids that do not exist.
func RequireAPIKey(cfg *config.AuthConfig) gin.HandlerFunc {
	var secret []byte
	if cfg != nil {
		secret = []byte(cfg.APIKey)
	}

	return func(c *gin.Context) {
		if !validAPIKey(secret, c.Query(QueryAPIKey)) {
			logging.FromContext(c.Request.Context()).Warn("rejected api key",
				slog.String("method", c.Request.Method),
				slog.String("path", c.FullPath()),
			)

			dto.AbortWithError(c, domain.NewForbiddenErrorWithMessage(
				c.Request.Method+" "+c.FullPath(), "invalid api key", MsgForbidden))

			return
		}

		c.Next()
	}
}

// validAPIKey compares in constant time. An unset secret never matches.
func validAPIKey(secret []byte, provided string) bool {
	if len(secret) == 0 {
		return false
	}

	return subtle.ConstantTimeCompare(secret, []byte(provided)) == 1
}
