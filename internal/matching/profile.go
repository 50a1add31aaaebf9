package matching

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the normalized user side of a match. Terms are lowercased,
// trimmed and deduplicated; the location has all spaces removed.
type Profile struct {
	skills    []string
	interests []string
	location  string
}

// NewProfile normalizes the raw profile fields.
func NewProfile(skills, interests []string, location string) Profile {
	return Profile{
		skills:    normalizeTerms(skills),
		interests: normalizeTerms(interests),
		location:  normalizeLocation(location),
	}
}

func (p Profile) Skills() []string    { return append([]string(nil), p.skills...) }
func (p Profile) Interests() []string { return append([]string(nil), p.interests...) }
func (p Profile) Location() string    { return p.location }

// ParseTerms accepts the wire shapes a profile list has been sent in: a JSON
// array of strings, a single comma-separated JSON string, or null.
func ParseTerms(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, fmt.Errorf("expected a list of strings or a comma-separated string")
	}

	return SplitTerms(joined), nil
}

// SplitTerms splits comma-separated text, trimming and dropping empty parts.
// Case is preserved.
func SplitTerms(s string) []string {
	parts := strings.Split(s, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		terms = append(terms, part)
	}
	return terms
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		// an empty term is a substring of everything
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(location), " ", ""))
}
