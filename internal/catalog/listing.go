package catalog

import "context"

const (
	TitleColumn     = "internship_title"
	CompanyColumn   = "company_name"
	LocationColumn  = "location"
	StipendColumn   = "stipend"
	SkillsColumn    = "Skills"
	InterestsColumn = "Interests"
)

// requiredColumns are the columns the scorer reads. The descriptive columns
// default to empty strings when a catalog omits them.
var requiredColumns = []string{LocationColumn, SkillsColumn, InterestsColumn}

// Listing is a single internship record of the catalog. Skills and Interests
// are kept as the raw comma-separated text found in the catalog.
type Listing struct {
	Title     string `mapstructure:"internship_title" json:"title"`
	Company   string `mapstructure:"company_name" json:"company"`
	Location  string `mapstructure:"location" json:"location"`
	Stipend   string `mapstructure:"stipend" json:"stipend"`
	Skills    string `mapstructure:"Skills" json:"Skills"`
	Interests string `mapstructure:"Interests" json:"Interests"`
}

// Source supplies a snapshot of the catalog. Implementations re-read their
// backing storage on every call.
type Source interface {
	Name() string
	Listings(ctx context.Context) ([]Listing, error)
}

// Static is an in-memory catalog.
type Static struct {
	Items []Listing
}

func (s *Static) Name() string { return "static" }

func (s *Static) Listings(context.Context) ([]Listing, error) {
	out := make([]Listing, len(s.Items))
	copy(out, s.Items)
	return out, nil
}

func (s *Static) Len() int {
	return len(s.Items)
}
