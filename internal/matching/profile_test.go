package matching

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewProfileNormalizes(t *testing.T) {
	t.Parallel()

	p := NewProfile(
		[]string{"  Python ", "python", "SQL", "", "  "},
		[]string{"Data Science"},
		"  New York ",
	)

	if got := p.Skills(); !reflect.DeepEqual(got, []string{"python", "sql"}) {
		t.Fatalf("unexpected skills: %v", got)
	}
	if got := p.Interests(); !reflect.DeepEqual(got, []string{"data science"}) {
		t.Fatalf("unexpected interests: %v", got)
	}
	if p.Location() != "newyork" {
		t.Fatalf("unexpected location: %q", p.Location())
	}
}

func TestProfileAccessorsCopy(t *testing.T) {
	t.Parallel()

	p := NewProfile([]string{"go"}, nil, "")
	skills := p.Skills()
	skills[0] = "rust"

	if p.Skills()[0] != "go" {
		t.Fatalf("profile must be immutable")
	}
}

func TestParseTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		expect  []string
		wantErr bool
	}{
		{name: "list", raw: `["Go", " SQL "]`, expect: []string{"Go", " SQL "}},
		{name: "comma string", raw: `"Go, SQL,, ML "`, expect: []string{"Go", "SQL", "ML"}},
		{name: "empty list", raw: `[]`, expect: []string{}},
		{name: "null", raw: `null`, expect: nil},
		{name: "missing", raw: ``, expect: nil},
		{name: "number", raw: `42`, wantErr: true},
		{name: "mixed list", raw: `["go", 1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTerms(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %#v, got %#v", tt.expect, got)
			}
		})
	}
}
