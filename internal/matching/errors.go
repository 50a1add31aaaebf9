package matching

import (
	"fmt"
	"strings"
)

// CatalogReadError reports that the catalog could not be read or decoded.
// It is a request-level failure and is never retried.
type CatalogReadError struct {
	Source string
	Err    error
}

func (e *CatalogReadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("reading catalog: %v", e.Err)
	}
	return fmt.Sprintf("reading catalog %s: %v", e.Source, e.Err)
}

func (e *CatalogReadError) Unwrap() error { return e.Err }

// InvalidProfileError reports required profile fields missing from a match request.
type InvalidProfileError struct {
	Fields []string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: missing required fields: %s", strings.Join(e.Fields, ", "))
}
