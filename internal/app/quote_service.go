// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/ports"
)

// Messages returned to callers when a lookup comes back empty.
const (
	MsgQuoteIDNotFound = "Sorry a quote with that id was not found in the database."
	MsgAuthorNotFound  = "Sorry, this author does not exist in this database."
	MsgQuoteNotFound   = "Sorry, this quote does not exist in this database."
	MsgStoreEmpty      = "Sorry, there are no quotes in the database yet."
)

// QuoteService orchestrates quote-related use cases.
// It depends on the repository port, not a concrete store.
type QuoteService struct {
	repo   ports.QuoteRepository
	logger *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Logger     *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// It panics if no repository is supplied.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: QuoteServiceConfig.Repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		repo:   cfg.Repository,
		logger: logger.With(slog.String("component", "quote_service")),
	}
}

// RandomQuote returns one stored quote chosen at random.
func (s *QuoteService) RandomQuote(ctx context.Context) (*domain.Quote, error) {
	quote, err := s.repo.Random(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundErrorWithMessage("quote", "", MsgStoreEmpty)
		}

		s.logFailure(ctx, "random quote", err)

		return nil, err
	}

	s.logger.DebugContext(ctx, "served random quote", slog.Int64("quote_id", quote.ID))

	return quote, nil
}

// AllQuotes returns every stored quote in insertion order.
func (s *QuoteService) AllQuotes(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.repo.List(ctx)
	if err != nil {
		s.logFailure(ctx, "list quotes", err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "listed quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// QuotesByAuthor returns the quotes attributed to author.
// An empty result is reported as not found.
func (s *QuoteService) QuotesByAuthor(ctx context.Context, author string) ([]domain.Quote, error) {
	quotes, err := s.repo.FindByAuthor(ctx, author)
	if err != nil {
		s.logFailure(ctx, "search by author", err)
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, domain.NewNotFoundErrorWithMessage("author", author, MsgAuthorNotFound)
	}

	return quotes, nil
}

// QuotesByText returns the quotes whose text equals text.
// An empty result is reported as not found.
func (s *QuoteService) QuotesByText(ctx context.Context, text string) ([]domain.Quote, error) {
	quotes, err := s.repo.FindByText(ctx, text)
	if err != nil {
		s.logFailure(ctx, "search by quote", err)
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, domain.NewNotFoundErrorWithMessage("quote", "", MsgQuoteNotFound)
	}

	return quotes, nil
}

// AddQuote validates and stores a new quote.
func (s *QuoteService) AddQuote(ctx context.Context, text, author string) (*domain.Quote, error) {
	quote, err := domain.NewQuote(text, author)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, quote)
	if err != nil {
		if !domain.IsConflict(err) {
			s.logFailure(ctx, "add quote", err)
		}

		return nil, err
	}

	s.logger.InfoContext(ctx, "quote added",
		slog.Int64("quote_id", created.ID),
		slog.String("author", created.Author),
	)

	return created, nil
}

// UpdateQuoteText replaces the text of the quote with the given id.
func (s *QuoteService) UpdateQuoteText(ctx context.Context, id int64, text string) error {
	if err := domain.ValidateText(text); err != nil {
		return err
	}

	if err := s.repo.UpdateText(ctx, id, text); err != nil {
		return s.idError(ctx, "update quote", id, err)
	}

	s.logger.InfoContext(ctx, "quote text updated", slog.Int64("quote_id", id))

	return nil
}

// UpdateQuoteAuthor replaces the author of the quote with the given id.
func (s *QuoteService) UpdateQuoteAuthor(ctx context.Context, id int64, author string) error {
	if err := domain.ValidateAuthor(author); err != nil {
		return err
	}

	if err := s.repo.UpdateAuthor(ctx, id, author); err != nil {
		return s.idError(ctx, "update author", id, err)
	}

	s.logger.InfoContext(ctx, "quote author updated",
		slog.Int64("quote_id", id),
		slog.String("author", author),
	)

	return nil
}

// DeleteQuote removes the quote with the given id. The quote is read first
// so the log records what was removed.
// Callers are expected to have checked the shared secret already.
func (s *QuoteService) DeleteQuote(ctx context.Context, id int64) error {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return s.idError(ctx, "delete quote", id, err)
	}

	// A concurrent delete can still win between the two statements.
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.idError(ctx, "delete quote", id, err)
	}

	s.logger.InfoContext(ctx, "quote deleted",
		slog.Int64("quote_id", quote.ID),
		slog.String("author", quote.Author),
		slog.String("quote", quote.Text),
	)

	return nil
}

// QuoteIDNotFound is the error reported for an id that addresses no quote.
// Handlers use it for path segments that are not integers.
func QuoteIDNotFound(id string) error {
	return domain.NewNotFoundErrorWithMessage("quote", id, MsgQuoteIDNotFound)
}

// idError replaces a repository not-found error with the caller-facing one.
func (s *QuoteService) idError(ctx context.Context, op string, id int64, err error) error {
	if domain.IsNotFound(err) {
		return QuoteIDNotFound(strconv.FormatInt(id, 10))
	}

	if !domain.IsConflict(err) {
		s.logFailure(ctx, op, err, slog.Int64("quote_id", id))
	}

	return err
}

func (s *QuoteService) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	args := append([]any{slog.String("operation", op), slog.Any("error", err)}, attrs...)
	s.logger.ErrorContext(ctx, "quote operation failed", args...)
}
