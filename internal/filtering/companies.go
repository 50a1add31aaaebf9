package filtering

import (
	"context"
	"strings"

	"github.com/spigell/internship-matcher/internal/catalog"
)

type companiesFilter struct {
	companies map[string]struct{}
	names     []string
	disabled  bool
	reason    string
}

// NewExcludedCompanies creates a filter that removes listings of the given
// companies. Names are compared case-insensitively.
func NewExcludedCompanies(companies []string) Filter {
	f := &companiesFilter{companies: make(map[string]struct{}, len(companies))}
	for _, c := range companies {
		key := companyKey(c)
		if key == "" {
			continue
		}
		if _, ok := f.companies[key]; ok {
			continue
		}
		f.companies[key] = struct{}{}
		f.names = append(f.names, strings.TrimSpace(c))
	}
	return f
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *companiesFilter) IsEnabled() bool { return !f.disabled }

func (f *companiesFilter) Validate() error { return nil }

func (f *companiesFilter) Apply(_ context.Context, listings []catalog.Listing) ([]catalog.Listing, Step, error) {
	if len(f.companies) == 0 {
		return listings, Step{Initial: len(listings), Left: len(listings)}, nil
	}

	kept, step := exclude(listings, func(l catalog.Listing) bool {
		_, found := f.companies[companyKey(l.Company)]
		return found
	})
	return kept, step, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["companies"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func companyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
