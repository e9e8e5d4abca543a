package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// QuoteResponse is the serialized form of a stored quote.
// Keys are emitted in domain.QuoteFields order: id, quote, author.
type QuoteResponse struct {
	ID     int64  `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// NewQuoteResponse converts a domain quote into its response form.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{ID: q.ID, Quote: q.Text, Author: q.Author}
}

// NewQuoteResponses converts a list of quotes. The result is never nil so
// an empty list serializes as [].
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}

	return out
}

// MarshalJSON writes one key per declared quote field.
func (r QuoteResponse) MarshalJSON() ([]byte, error) {
	q := domain.Quote{ID: r.ID, Text: r.Quote, Author: r.Author}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, field := range domain.QuoteFields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(string(field))
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(q.Value(field))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", field, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// QuoteEnvelope wraps a single quote: {"quote": {...}}.
type QuoteEnvelope struct {
	Quote QuoteResponse `json:"quote"`
}

// QuotesEnvelope wraps a list of quotes: {"quotes": [...]}.
type QuotesEnvelope struct {
	Quotes []QuoteResponse `json:"quotes"`
}

// SuccessResponse acknowledges a write: {"response": {"success": "..."}}.
type SuccessResponse struct {
	Response SuccessDetail `json:"response"`
}

// SuccessDetail carries the acknowledgement message.
type SuccessDetail struct {
	Success string `json:"success"`
}

// NewSuccessResponse builds a write acknowledgement.
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{Response: SuccessDetail{Success: message}}
}

// AddQuoteRequest is the form body of POST /add.
type AddQuoteRequest struct {
	Quote  string `form:"quote"  json:"quote"  validate:"required,notempty"`
	Author string `form:"author" json:"author" validate:"required,notempty"`
}

// Validate applies the entity's length limits.
func (r *AddQuoteRequest) Validate() error {
	if err := domain.ValidateText(r.Quote); err != nil {
		return err
	}

	return domain.ValidateAuthor(r.Author)
}

// UpdateQuoteRequest is the query of PATCH /update-quote/:id.
type UpdateQuoteRequest struct {
	NewQuote string `form:"new_quote" json:"new_quote" validate:"required,notempty"`
}

// Validate applies the entity's length limits.
func (r *UpdateQuoteRequest) Validate() error {
	return domain.ValidateText(r.NewQuote)
}

// UpdateAuthorRequest is the query of PATCH /update-quote-author/:id.
type UpdateAuthorRequest struct {
	NewAuthor string `form:"new_author" json:"new_author" validate:"required,notempty"`
}

// Validate applies the entity's length limits.
func (r *UpdateAuthorRequest) Validate() error {
	return domain.ValidateAuthor(r.NewAuthor)
}
