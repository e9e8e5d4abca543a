package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/mocks"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*QuoteService, *mocks.MockQuoteRepository) {
	t.Helper()

	repo := mocks.NewMockQuoteRepository(t)

	return NewQuoteService(QuoteServiceConfig{Repository: repo, Logger: discardLogger()}), repo
}

func TestNewQuoteService_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Repository: nil, Logger: slog.Default()})
	})
}

func TestNewQuoteService_DefaultsLogger(t *testing.T) {
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: mocks.NewMockQuoteRepository(t),
		Logger:     nil,
	})

	require.NotNil(t, svc)
}

func TestQuoteService_RandomQuote(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockQuoteRepository)
		expected  *domain.Quote
		errCheck  func(error) bool
		errMsg    string
	}{
		{
			name: "success",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Random(mock.Anything).
					Return(&domain.Quote{ID: 3, Text: "Stay hungry.", Author: "Steve Jobs"}, nil)
			},
			expected: &domain.Quote{ID: 3, Text: "Stay hungry.", Author: "Steve Jobs"},
		},
		{
			name: "empty store",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Random(mock.Anything).Return(nil, domain.NewNotFoundError("quote", ""))
			},
			errCheck: domain.IsNotFound,
			errMsg:   MsgStoreEmpty,
		},
		{
			name: "store unavailable",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Random(mock.Anything).Return(nil, domain.NewUnavailableError("database", "timeout"))
			},
			errCheck: domain.IsUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tt.setupMock(repo)

			quote, err := svc.RandomQuote(context.Background())

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Nil(t, quote)

				if tt.errMsg != "" {
					assert.Equal(t, tt.errMsg, err.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, quote)
		})
	}
}

func TestQuoteService_AllQuotes(t *testing.T) {
	t.Run("returns every quote", func(t *testing.T) {
		svc, repo := newTestService(t)
		stored := []domain.Quote{
			{ID: 1, Text: "a", Author: "x"},
			{ID: 2, Text: "b", Author: "y"},
		}
		repo.EXPECT().List(mock.Anything).Return(stored, nil)

		quotes, err := svc.AllQuotes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, stored, quotes)
	})

	t.Run("empty store is not an error", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().List(mock.Anything).Return([]domain.Quote{}, nil)

		quotes, err := svc.AllQuotes(context.Background())

		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().List(mock.Anything).Return(nil, errors.New("disk full"))

		_, err := svc.AllQuotes(context.Background())

		assert.EqualError(t, err, "disk full")
	})
}

func TestQuoteService_QuotesByAuthor(t *testing.T) {
	t.Run("matches", func(t *testing.T) {
		svc, repo := newTestService(t)
		stored := []domain.Quote{{ID: 4, Text: "Be yourself.", Author: "Oscar Wilde"}}
		repo.EXPECT().FindByAuthor(mock.Anything, "Oscar Wilde").Return(stored, nil)

		quotes, err := svc.QuotesByAuthor(context.Background(), "Oscar Wilde")

		require.NoError(t, err)
		assert.Equal(t, stored, quotes)
	})

	t.Run("no matches", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().FindByAuthor(mock.Anything, "Nobody").Return([]domain.Quote{}, nil)

		_, err := svc.QuotesByAuthor(context.Background(), "Nobody")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, MsgAuthorNotFound, err.Error())
	})
}

func TestQuoteService_QuotesByText(t *testing.T) {
	t.Run("matches", func(t *testing.T) {
		svc, repo := newTestService(t)
		stored := []domain.Quote{{ID: 5, Text: "Carpe diem.", Author: "Horace"}}
		repo.EXPECT().FindByText(mock.Anything, "Carpe diem.").Return(stored, nil)

		quotes, err := svc.QuotesByText(context.Background(), "Carpe diem.")

		require.NoError(t, err)
		assert.Equal(t, stored, quotes)
	})

	t.Run("no matches", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().FindByText(mock.Anything, "unknown").Return(nil, nil)

		_, err := svc.QuotesByText(context.Background(), "unknown")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, MsgQuoteNotFound, err.Error())
	})
}

func TestQuoteService_AddQuote(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		author    string
		setupMock func(*mocks.MockQuoteRepository)
		errCheck  func(error) bool
	}{
		{
			name:   "success",
			text:   "Simplicity is prerequisite for reliability.",
			author: "Edsger Dijkstra",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Create(mock.Anything, &domain.Quote{
					Text:   "Simplicity is prerequisite for reliability.",
					Author: "Edsger Dijkstra",
				}).RunAndReturn(func(_ context.Context, q *domain.Quote) (*domain.Quote, error) {
					stored := *q
					stored.ID = 9

					return &stored, nil
				})
			},
		},
		{
			name:      "missing text",
			author:    "Edsger Dijkstra",
			setupMock: func(*mocks.MockQuoteRepository) {},
			errCheck:  domain.IsValidation,
		},
		{
			name:      "missing author",
			text:      "Simplicity is prerequisite for reliability.",
			setupMock: func(*mocks.MockQuoteRepository) {},
			errCheck:  domain.IsValidation,
		},
		{
			name:      "text too long",
			text:      strings.Repeat("x", domain.MaxQuoteLength+1),
			author:    "Edsger Dijkstra",
			setupMock: func(*mocks.MockQuoteRepository) {},
			errCheck:  domain.IsValidation,
		},
		{
			name:   "duplicate text",
			text:   "Simplicity is prerequisite for reliability.",
			author: "Someone Else",
			setupMock: func(m *mocks.MockQuoteRepository) {
				m.EXPECT().Create(mock.Anything, mock.Anything).
					Return(nil, domain.NewConflictError("quote", "a quote with this text already exists"))
			},
			errCheck: domain.IsConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tt.setupMock(repo)

			quote, err := svc.AddQuote(context.Background(), tt.text, tt.author)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(9), quote.ID)
			assert.Equal(t, tt.text, quote.Text)
			assert.Equal(t, tt.author, quote.Author)
		})
	}
}

func TestQuoteService_UpdateQuoteText(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().UpdateText(mock.Anything, int64(2), "New text").Return(nil)

		require.NoError(t, svc.UpdateQuoteText(context.Background(), 2, "New text"))
	})

	t.Run("missing value skips the store", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.UpdateQuoteText(context.Background(), 2, "")

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().UpdateText(mock.Anything, int64(99), "New text").
			Return(domain.NewNotFoundError("quote", "99"))

		err := svc.UpdateQuoteText(context.Background(), 99, "New text")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, MsgQuoteIDNotFound, err.Error())
	})

	t.Run("duplicate text", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().UpdateText(mock.Anything, int64(2), "Taken").
			Return(domain.NewConflictError("quote", "a quote with this text already exists"))

		err := svc.UpdateQuoteText(context.Background(), 2, "Taken")

		assert.True(t, domain.IsConflict(err))
	})
}

func TestQuoteService_UpdateQuoteAuthor(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().UpdateAuthor(mock.Anything, int64(2), "Anonymous").Return(nil)

		require.NoError(t, svc.UpdateQuoteAuthor(context.Background(), 2, "Anonymous"))
	})

	t.Run("missing value skips the store", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.UpdateQuoteAuthor(context.Background(), 2, "")

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().UpdateAuthor(mock.Anything, int64(99), "Anonymous").
			Return(domain.NewNotFoundError("quote", "99"))

		err := svc.UpdateQuoteAuthor(context.Background(), 99, "Anonymous")

		assert.Equal(t, MsgQuoteIDNotFound, err.Error())
	})
}

func TestQuoteService_DeleteQuote(t *testing.T) {
	stored := &domain.Quote{ID: 2, Text: "Stay curious.", Author: "Anon"}

	t.Run("success logs the removed quote", func(t *testing.T) {
		var buf strings.Builder

		repo := mocks.NewMockQuoteRepository(t)
		repo.EXPECT().Get(mock.Anything, int64(2)).Return(stored, nil)
		repo.EXPECT().Delete(mock.Anything, int64(2)).Return(nil)

		svc := NewQuoteService(QuoteServiceConfig{
			Repository: repo,
			Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
		})

		require.NoError(t, svc.DeleteQuote(context.Background(), 2))
		assert.Contains(t, buf.String(), "quote deleted")
		assert.Contains(t, buf.String(), "author=Anon")
	})

	t.Run("unknown id skips the delete", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().Get(mock.Anything, int64(2)).Return(nil, domain.NewNotFoundError("quote", "2"))

		err := svc.DeleteQuote(context.Background(), 2)

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, MsgQuoteIDNotFound, err.Error())
	})

	t.Run("removed between lookup and delete", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().Get(mock.Anything, int64(2)).Return(stored, nil)
		repo.EXPECT().Delete(mock.Anything, int64(2)).Return(domain.NewNotFoundError("quote", "2"))

		err := svc.DeleteQuote(context.Background(), 2)

		assert.Equal(t, MsgQuoteIDNotFound, err.Error())
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().Get(mock.Anything, int64(2)).Return(nil, domain.NewUnavailableError("database", "connection refused"))

		err := svc.DeleteQuote(context.Background(), 2)

		assert.True(t, domain.IsUnavailable(err))
	})
}

func TestQuoteIDNotFound(t *testing.T) {
	err := QuoteIDNotFound("abc")

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "abc", nf.ID)
	assert.Equal(t, MsgQuoteIDNotFound, err.Error())
}
