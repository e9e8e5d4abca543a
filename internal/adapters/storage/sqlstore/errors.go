package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// mapError translates a driver error into a domain error.
// Errors with no domain meaning are wrapped with op and returned as-is.
func (s *Store) mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil

	case s.dialect.isUniqueViolation(err):
		return domain.NewConflictError("quote", "a quote with this text already exists")

	case errors.Is(err, driver.ErrBadConn), errors.Is(err, context.DeadlineExceeded):
		return domain.NewUnavailableError("database", err.Error())

	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
