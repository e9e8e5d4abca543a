package ports

import (
	"context"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// QuoteRepository is the persistence port for quotes.
// Every method runs a single statement and commits it before returning.
//
// Implementations map storage failures onto domain errors:
//   - domain.ErrNotFound when the addressed row does not exist
//   - domain.ErrConflict when a unique constraint rejects the write
//   - domain.ErrUnavailable when the store cannot be reached
type QuoteRepository interface {
	// List returns every quote in insertion order.
	List(ctx context.Context) ([]domain.Quote, error)

	// Random returns one quote chosen uniformly at random.
	// Returns domain.ErrNotFound if the store is empty.
	Random(ctx context.Context) (*domain.Quote, error)

	// FindByAuthor returns the quotes whose author equals author exactly.
	FindByAuthor(ctx context.Context, author string) ([]domain.Quote, error)

	// FindByText returns the quotes whose text equals text exactly.
	FindByText(ctx context.Context, text string) ([]domain.Quote, error)

	// Get returns the quote with the given id.
	Get(ctx context.Context, id int64) (*domain.Quote, error)

	// Create stores q and returns it with its assigned id.
	Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error)

	// UpdateText replaces the text of the quote with the given id.
	UpdateText(ctx context.Context, id int64, text string) error

	// UpdateAuthor replaces the author of the quote with the given id.
	UpdateAuthor(ctx context.Context, id int64, author string) error

	// Delete removes the quote with the given id.
	Delete(ctx context.Context, id int64) error
}
