package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// quoteColumns is the SELECT list, in domain.QuoteFields order.
var quoteColumns = func() string {
	cols := make([]string, len(domain.QuoteFields))
	for i, f := range domain.QuoteFields {
		cols[i] = string(f)
	}

	return strings.Join(cols, ", ")
}()

var (
	selectAllSQL      = "SELECT " + quoteColumns + " FROM quote ORDER BY id"
	selectRandomSQL   = "SELECT " + quoteColumns + " FROM quote ORDER BY RANDOM() LIMIT 1"
	selectByAuthorSQL = "SELECT " + quoteColumns + " FROM quote WHERE author = ? ORDER BY id"
	selectByTextSQL   = "SELECT " + quoteColumns + " FROM quote WHERE quote = ? ORDER BY id"
	selectByIDSQL     = "SELECT " + quoteColumns + " FROM quote WHERE id = ?"
	insertSQL         = "INSERT INTO quote (quote, author) VALUES (?, ?) RETURNING id"
	updateTextSQL     = "UPDATE quote SET quote = ? WHERE id = ?"
	updateAuthorSQL   = "UPDATE quote SET author = ? WHERE id = ?"
	deleteSQL         = "DELETE FROM quote WHERE id = ?"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(r rowScanner) (domain.Quote, error) {
	var q domain.Quote
	err := r.Scan(&q.ID, &q.Text, &q.Author)

	return q, err
}

// List returns every quote in insertion order.
// Implements ports.QuoteRepository.
func (s *Store) List(ctx context.Context) ([]domain.Quote, error) {
	return s.query(ctx, "listing quotes", selectAllSQL)
}

// Random returns one quote chosen uniformly at random.
// Implements ports.QuoteRepository.
func (s *Store) Random(ctx context.Context) (*domain.Quote, error) {
	q, err := s.queryOne(ctx, "selecting random quote", selectRandomSQL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", "")
	}

	if err != nil {
		return nil, err
	}

	return q, nil
}

// FindByAuthor returns quotes whose author matches exactly.
// Implements ports.QuoteRepository.
func (s *Store) FindByAuthor(ctx context.Context, author string) ([]domain.Quote, error) {
	return s.query(ctx, "finding quotes by author", selectByAuthorSQL, author)
}

// FindByText returns quotes whose text matches exactly.
// Implements ports.QuoteRepository.
func (s *Store) FindByText(ctx context.Context, text string) ([]domain.Quote, error) {
	return s.query(ctx, "finding quotes by text", selectByTextSQL, text)
}

// Get returns the quote with the given id.
// Implements ports.QuoteRepository.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	q, err := s.queryOne(ctx, "getting quote", selectByIDSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	if err != nil {
		return nil, err
	}

	return q, nil
}

// Create inserts q and returns the stored copy with its assigned id.
// Implements ports.QuoteRepository.
func (s *Store) Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error) {
	var id int64

	err := s.db.QueryRowContext(ctx, s.dialect.rebind(insertSQL), q.Text, q.Author).Scan(&id)
	if err != nil {
		return nil, s.mapError("inserting quote", err)
	}

	s.logger.Log(ctx, logging.LevelTrace, "inserted quote", slog.Int64("quote_id", id))

	return &domain.Quote{ID: id, Text: q.Text, Author: q.Author}, nil
}

// UpdateText replaces a quote's text.
// Implements ports.QuoteRepository.
func (s *Store) UpdateText(ctx context.Context, id int64, text string) error {
	return s.exec(ctx, "updating quote text", id, updateTextSQL, text, id)
}

// UpdateAuthor replaces a quote's author.
// Implements ports.QuoteRepository.
func (s *Store) UpdateAuthor(ctx context.Context, id int64, author string) error {
	return s.exec(ctx, "updating quote author", id, updateAuthorSQL, author, id)
}

// Delete removes a quote.
// Implements ports.QuoteRepository.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, "deleting quote", id, deleteSQL, id)
}

func (s *Store) query(ctx context.Context, op, query string, args ...any) ([]domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, s.mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	quotes := make([]domain.Quote, 0)

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, s.mapError(op, err)
		}

		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, s.mapError(op, err)
	}

	s.logger.Log(ctx, logging.LevelTrace, op, slog.Int("rows", len(quotes)))

	return quotes, nil
}

// queryOne returns sql.ErrNoRows unwrapped so callers can build a not found error.
func (s *Store) queryOne(ctx context.Context, op, query string, args ...any) (*domain.Quote, error) {
	q, err := scanQuote(s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}

	if err != nil {
		return nil, s.mapError(op, err)
	}

	return &q, nil
}

// exec runs a single-row mutation and reports a missing row as not found.
func (s *Store) exec(ctx context.Context, op string, id int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return s.mapError(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return s.mapError(op, err)
	}

	if n == 0 {
		return domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	s.logger.Log(ctx, logging.LevelTrace, op, slog.Int64("quote_id", id))

	return nil
}
