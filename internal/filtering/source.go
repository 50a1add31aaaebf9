package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/catalog"
)

// Source applies a filter pipeline to the listings of another source.
type Source struct {
	Inner  catalog.Source
	Steps  []Filter
	Logger *zap.Logger
}

func (s *Source) Name() string { return s.Inner.Name() }

func (s *Source) Listings(ctx context.Context) ([]catalog.Listing, error) {
	listings, err := s.Inner.Listings(ctx)
	if err != nil {
		return nil, err
	}
	return Run(ctx, s.Logger, s.Steps, listings)
}
