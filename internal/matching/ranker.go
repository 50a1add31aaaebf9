package matching

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/catalog"
)

const (
	DefaultThreshold = 50.0
	DefaultLimit     = 10
)

// Result is a scored listing as returned to the caller.
type Result struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Stipend    string  `json:"stipend"`
	Skills     string  `json:"Skills"`
	Interests  string  `json:"Interests"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Recorder receives the number of suggestions that passed the threshold.
type Recorder interface {
	AddShown(n int)
}

// Ranker turns a catalog into a shortlist for a profile.
type Ranker struct {
	scorer    *Scorer
	recorder  Recorder
	threshold float64
	limit     int
	logger    *zap.Logger
}

type Option func(*Ranker)

// WithThreshold sets the confidence a result has to exceed to be kept.
func WithThreshold(threshold float64) Option {
	return func(r *Ranker) { r.threshold = threshold }
}

// WithLimit sets the maximum number of returned results.
func WithLimit(limit int) Option {
	return func(r *Ranker) {
		if limit >= 0 {
			r.limit = limit
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRanker creates a ranker. A nil recorder disables counting.
func NewRanker(scorer *Scorer, recorder Recorder, opts ...Option) *Ranker {
	if scorer == nil {
		scorer = NewScorer()
	}

	r := &Ranker{
		scorer:    scorer,
		recorder:  recorder,
		threshold: DefaultThreshold,
		limit:     DefaultLimit,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Ranker) Threshold() float64 { return r.threshold }
func (r *Ranker) Limit() int         { return r.limit }

// Rank reads the catalog, scores every listing and returns at most Limit
// results above Threshold, best first. The recorder is credited with the
// number of results that passed the threshold, counted before truncation.
func (r *Ranker) Rank(ctx context.Context, p Profile, src catalog.Source) ([]Result, error) {
	listings, err := src.Listings(ctx)
	if err != nil {
		return nil, &CatalogReadError{Source: src.Name(), Err: err}
	}

	results, filtered := r.RankListings(p, listings)

	if r.recorder != nil {
		r.recorder.AddShown(filtered)
	}

	r.logger.Debug("ranked catalog",
		zap.String("catalog", src.Name()),
		zap.Int("listings", len(listings)),
		zap.Int("filtered", filtered),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// RankListings ranks an in-memory catalog without touching the recorder. It
// returns the shortlist and the number of results that passed the threshold.
func (r *Ranker) RankListings(p Profile, listings []catalog.Listing) ([]Result, int) {
	kept := make([]Result, 0)
	for _, listing := range listings {
		confidence, reason := r.scorer.Score(p, listing)
		if confidence <= r.threshold {
			continue
		}

		kept = append(kept, Result{
			Title:      listing.Title,
			Company:    listing.Company,
			Location:   listing.Location,
			Stipend:    listing.Stipend,
			Skills:     listing.Skills,
			Interests:  listing.Interests,
			Confidence: confidence,
			Reason:     reason,
		})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	filtered := len(kept)
	if len(kept) > r.limit {
		kept = kept[:r.limit]
	}

	return kept, filtered
}
