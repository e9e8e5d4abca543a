// Package domain contains core business entities and rules.
package domain

import "strconv"

// Field length limits enforced on quote text and author.
const (
	// MaxQuoteLength is the maximum number of characters in a quote's text.
	MaxQuoteLength = 250

	// MaxAuthorLength is the maximum number of characters in an author name.
	MaxAuthorLength = 250
)

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is assigned by the store on creation and never changes.
	ID int64

	// Text is the quotation itself. It is unique across the store.
	Text string

	// Author is who said or wrote the quote. Many quotes may share one.
	Author string
}

// QuoteField names one declared field of a Quote.
type QuoteField string

// Declared Quote fields.
const (
	QuoteFieldID     QuoteField = "id"
	QuoteFieldText   QuoteField = "quote"
	QuoteFieldAuthor QuoteField = "author"
)

// QuoteFields lists the declared fields of a Quote in declaration order.
// Storage column lists and serialized output both follow this order.
var QuoteFields = []QuoteField{QuoteFieldID, QuoteFieldText, QuoteFieldAuthor}

// Value returns the value of the named field.
func (q *Quote) Value(f QuoteField) any {
	switch f {
	case QuoteFieldID:
		return q.ID
	case QuoteFieldText:
		return q.Text
	case QuoteFieldAuthor:
		return q.Author
	default:
		return nil
	}
}

// NewQuote builds an unsaved quote after checking the required fields.
func NewQuote(text, author string) (*Quote, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	if err := ValidateAuthor(author); err != nil {
		return nil, err
	}

	return &Quote{Text: text, Author: author}, nil
}

// ValidateText checks quote text against the entity's constraints.
func ValidateText(text string) error {
	return validateRequired(string(QuoteFieldText), text, MaxQuoteLength)
}

// ValidateAuthor checks an author name against the entity's constraints.
func ValidateAuthor(author string) error {
	return validateRequired(string(QuoteFieldAuthor), author, MaxAuthorLength)
}

func validateRequired(field, value string, maxLen int) error {
	if value == "" {
		return NewValidationError(field, "this field is required")
	}

	if len([]rune(value)) > maxLen {
		return NewValidationErrorWithValue(field,
			"must be at most "+strconv.Itoa(maxLen)+" characters", len([]rune(value)))
	}

	return nil
}
