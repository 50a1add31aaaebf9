package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/matching"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Fields: []string{"title", "company"}}
	assert.Equal(t, "validation error: missing or invalid fields: title, company", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrBadRequest(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := &ErrBadRequest{Err: inner}
	assert.Equal(t, "invalid request body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrBadRequest",
			err:      &ErrBadRequest{Err: assert.AnError},
			expected: http.StatusBadRequest,
		},
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Fields: []string{"title"}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "InvalidProfileError",
			err:      &matching.InvalidProfileError{Fields: []string{"location"}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped InvalidProfileError",
			err:      fmt.Errorf("match: %w", &matching.InvalidProfileError{Fields: []string{"skills"}}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "CatalogReadError",
			err:      &matching.CatalogReadError{Source: "internships.csv", Err: assert.AnError},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	err := newValidator().Struct(accepted.Record{Confidence: 60})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)

	converted := validationError(err)
	var validation *ErrValidation
	require.ErrorAs(t, converted, &validation)
	assert.Equal(t, []string{"title", "company"}, validation.Fields)
}
