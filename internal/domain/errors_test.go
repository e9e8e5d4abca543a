package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			err:         NewNotFoundError("quote", "12"),
			entity:      "quote",
			id:          "12",
			expectedMsg: `quote with id "12" not found`,
		},
		{
			name:        "with entity only",
			err:         NewNotFoundError("quote", ""),
			entity:      "quote",
			expectedMsg: "quote not found",
		},
		{
			name:        "message overrides generated text",
			err:         NewNotFoundErrorWithMessage("quote", "7", "Sorry, nothing here."),
			entity:      "quote",
			id:          "7",
			expectedMsg: "Sorry, nothing here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, tt.err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
			assert.Equal(t, ErrNotFound, notFound.Unwrap())
		})
	}
}

func TestConflictError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "basic conflict",
			err:         NewConflictError("quote", "already exists"),
			expectedMsg: "quote conflict: already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrConflict)

			var conflict *ConflictError
			require.ErrorAs(t, tt.err, &conflict)
			assert.Equal(t, "quote", conflict.Entity)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("author", "this field is required")
	assert.Equal(t, "validation failed for author: this field is required", err.Error())
	require.ErrorIs(t, err, ErrValidation)

	err = NewValidationError("", "general validation error")
	assert.Equal(t, "validation failed: general validation error", err.Error())

	err = NewValidationErrorWithValue("quote", "too long", 300)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "quote", validation.Field)
	assert.Equal(t, 300, validation.Value)
	assert.Equal(t, ErrValidation, validation.Unwrap())
}

func TestForbiddenError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "with reason",
			err:         &ForbiddenError{Operation: "delete", Reason: "invalid api key"},
			expectedMsg: `operation "delete" forbidden: invalid api key`,
		},
		{
			name:        "without reason",
			err:         &ForbiddenError{Operation: "delete"},
			expectedMsg: `operation "delete" forbidden`,
		},
		{
			name:        "message overrides generated text",
			err:         NewForbiddenErrorWithMessage("delete", "invalid api key", "Not allowed."),
			expectedMsg: "Not allowed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrForbidden)

			var forbidden *ForbiddenError
			require.ErrorAs(t, tt.err, &forbidden)
			assert.Equal(t, "delete", forbidden.Operation)
		})
	}
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("database", "connection refused")
	assert.Equal(t, `service "database" unavailable: connection refused`, err.Error())
	assert.Equal(t, `service "database" unavailable`, NewUnavailableError("database", "").Error())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ErrUnavailable, unavailable.Unwrap())
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewNotFoundError("quote", "1"), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrConflict, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsConflict with ConflictError", NewConflictError("quote", "exists"), IsConflict, true},
		{"IsConflict with wrapped", fmt.Errorf("wrapped: %w", ErrConflict), IsConflict, true},
		{"IsConflict with other error", ErrNotFound, IsConflict, false},

		{"IsValidation with ValidationError", NewValidationError("quote", "required"), IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsForbidden with ForbiddenError", NewForbiddenErrorWithMessage("delete", "bad key", "Not allowed."), IsForbidden, true},
		{"IsForbidden with other error", ErrNotFound, IsForbidden, false},

		{"IsUnavailable with UnavailableError", NewUnavailableError("database", "down"), IsUnavailable, true},
		{"IsUnavailable with nil", nil, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError("quote", "42")
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "42", notFound.ID)
}
