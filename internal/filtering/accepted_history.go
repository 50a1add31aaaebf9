package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/catalog"
)

// AcceptedLister returns the matches accepted so far.
type AcceptedLister interface {
	List() ([]accepted.Record, error)
}

type acceptedHistoryFilter struct {
	store    AcceptedLister
	logger   *zap.Logger
	disabled bool
	reason   string
}

// NewAcceptedHistory creates a filter that removes listings already accepted,
// identified by title and company.
func NewAcceptedHistory(store AcceptedLister, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &acceptedHistoryFilter{store: store, logger: logger}
}

func (f *acceptedHistoryFilter) Name() string { return "accepted_history" }

func (f *acceptedHistoryFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *acceptedHistoryFilter) IsEnabled() bool { return !f.disabled }

func (f *acceptedHistoryFilter) Validate() error {
	if f.store == nil {
		return fmt.Errorf("accepted store is required")
	}
	return nil
}

func (f *acceptedHistoryFilter) Apply(_ context.Context, listings []catalog.Listing) ([]catalog.Listing, Step, error) {
	records, err := f.store.List()
	if err != nil {
		return nil, Step{}, fmt.Errorf("list accepted matches: %w", err)
	}

	seen := make(map[[2]string]struct{}, len(records))
	for _, r := range records {
		seen[historyKey(r.Title, r.Company)] = struct{}{}
	}

	kept, step := exclude(listings, func(l catalog.Listing) bool {
		_, found := seen[historyKey(l.Title, l.Company)]
		return found
	})

	if step.Dropped > 0 {
		f.logger.Info("excluding already accepted listings",
			zap.Int("excluded", step.Dropped),
			zap.Int("listings_left", step.Left),
		)
	}

	return kept, step, nil
}

func (f *acceptedHistoryFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

func historyKey(title, company string) [2]string {
	return [2]string{companyKey(title), companyKey(company)}
}
