package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/internship-matcher/internal/matching"
)

// ErrBadRequest indicates a request body that could not be decoded.
type ErrBadRequest struct {
	Err error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *ErrBadRequest) Unwrap() error { return e.Err }

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		validation *ErrValidation
		profile    *matching.InvalidProfileError
		catalogErr *matching.CatalogReadError
	)

	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation), errors.As(err, &profile):
		return http.StatusBadRequest
	case errors.As(err, &catalogErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrBadRequest{Err: err}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ErrValidation{Fields: fields}
}
