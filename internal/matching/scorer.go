package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/internship-matcher/internal/catalog"
)

const (
	skillsWeight    = 0.5
	interestsWeight = 0.3
	locationWeight  = 0.2

	locationMatch = 100.0
)

// Breakdown holds the components a confidence score is built from.
type Breakdown struct {
	SkillsRatio    float64
	InterestsRatio float64
	LocationScore  float64
	Confidence     float64
	Reason         string
}

// Scorer computes how well a listing fits a profile. It is stateless and
// safe for concurrent use.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the confidence in [0,100] and a human-readable reason.
func (s *Scorer) Score(p Profile, l catalog.Listing) (float64, string) {
	b := s.Breakdown(p, l)
	return b.Confidence, b.Reason
}

func (s *Scorer) Breakdown(p Profile, l catalog.Listing) Breakdown {
	skillsRatio := matchRatio(p.skills, tokenize(l.Skills))
	interestsRatio := matchRatio(p.interests, tokenize(l.Interests))

	locationScore := 0.0
	if locationMatches(p.location, l.Location) {
		locationScore = locationMatch
	}

	confidence := (skillsRatio*skillsWeight+interestsRatio*interestsWeight)*100 + locationScore*locationWeight

	return Breakdown{
		SkillsRatio:    skillsRatio,
		InterestsRatio: interestsRatio,
		LocationScore:  locationScore,
		Confidence:     confidence,
		Reason: fmt.Sprintf("Matched %.0f%% skills, %.0f%% interests, location score %.0f%%.",
			skillsRatio*100, interestsRatio*100, locationScore),
	}
}

// matchRatio counts every (term, token) pair where term is contained in
// token and divides by the token count. Pairs are not deduplicated; the
// ratio is capped at 1.
func matchRatio(terms, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	matches := 0
	for _, term := range terms {
		for _, token := range tokens {
			if strings.Contains(token, term) {
				matches++
			}
		}
	}

	return min(1, float64(matches)/float64(len(tokens)))
}

// locationMatches reports whether the profile location occurs in the listing
// location. The profile side has no spaces, so spaces in the listing are
// ignored as well: "newyork" is found in "New York, NY".
func locationMatches(profileLocation, listingLocation string) bool {
	listingLocation = strings.ToLower(strings.TrimSpace(listingLocation))
	if strings.Contains(listingLocation, profileLocation) {
		return true
	}
	return strings.Contains(strings.ReplaceAll(listingLocation, " ", ""), profileLocation)
}

func tokenize(s string) []string {
	terms := SplitTerms(s)
	for i, term := range terms {
		terms[i] = strings.ToLower(term)
	}
	return terms
}
