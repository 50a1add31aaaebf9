package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/catalog"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/matching"
)

func TestUnmarshalConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := unmarshalConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "internships.csv", config.Catalog.Path)
	assert.Equal(t, "accepted_internships.csv", config.Accepted.File)
	assert.Equal(t, 50.0, config.Match.Threshold)
	assert.Equal(t, 10, config.Match.Limit)
	assert.Equal(t, ":5000", config.Server.Addr)
	assert.False(t, config.Filters.SkipAccepted)
	assert.Empty(t, config.Filters.ExcludeCompanies)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.5-flash", config.AI.Gemini.Model)
	assert.Equal(t, 3, config.AI.Gemini.MaxRetries)
}

func TestUnmarshalConfigFromEnv(t *testing.T) {
	t.Setenv("INTERNSHIP_MATCHER_MATCH_THRESHOLD", "70")
	t.Setenv("INTERNSHIP_MATCHER_FILTERS_EXCLUDE_COMPANIES", "Acme,Globex")
	t.Setenv("INTERNSHIP_MATCHER_AI_GEMINI_MAX_RETRIES", "5")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	config, err := unmarshalConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 70.0, config.Match.Threshold)
	assert.Equal(t, []string{"Acme", "Globex"}, config.Filters.ExcludeCompanies)
	assert.Equal(t, 5, config.AI.Gemini.MaxRetries)
}

func TestUnmarshalConfigEmpty(t *testing.T) {
	config, err := unmarshalConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, matching.DefaultThreshold, config.Match.Threshold)
	assert.NotNil(t, config.AI.Gemini)
}

func TestNewCatalog(t *testing.T) {
	src := newCatalog(&CatalogConfig{Path: "internships.csv"}, zap.NewNop())
	assert.IsType(t, &catalog.File{}, src)

	src = newCatalog(&CatalogConfig{Path: "internships.csv", URL: "https://example.com/internships.csv"}, zap.NewNop())
	assert.IsType(t, &catalog.HTTP{}, src)
}

func TestNewFilters(t *testing.T) {
	store := accepted.New(t.TempDir() + "/accepted.csv")

	steps, err := newFilters(&FiltersConfig{}, store, zap.NewNop())
	require.NoError(t, err)
	for _, status := range filtering.Describe(steps) {
		assert.False(t, status.Enabled, status.Name)
	}

	steps, err = newFilters(&FiltersConfig{ExcludeCompanies: []string{"Acme"}, SkipAccepted: true}, store, zap.NewNop())
	require.NoError(t, err)
	for _, status := range filtering.Describe(steps) {
		assert.True(t, status.Enabled, status.Name)
	}
}

func TestNewLetterWriter(t *testing.T) {
	assert.IsType(t, ai.Static{}, newLetterWriter(t.Context(), nil, zap.NewNop()))
	assert.IsType(t, ai.Static{}, newLetterWriter(t.Context(), &AIConfig{Enabled: false}, zap.NewNop()))

	unsupported := &AIConfig{Enabled: true, Provider: "openai", Gemini: &GeminiConfig{}}
	assert.IsType(t, ai.Static{}, newLetterWriter(t.Context(), unsupported, zap.NewNop()))
}

func newMatchCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "match"}
	cmd.Flags().StringSliceP("skills", "s", nil, "")
	cmd.Flags().StringSliceP("interests", "i", nil, "")
	cmd.Flags().StringP("location", "l", "", "")
	return cmd
}

func TestProfileFromFlags(t *testing.T) {
	cmd := newMatchCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"-s", "Python, SQL", "-i", "data", "-l", "New York"}))

	in, err := profileFromFlags(cmd)
	require.NoError(t, err)

	p := in.profile()
	assert.Equal(t, []string{"python", "sql"}, p.Skills())
	assert.Equal(t, []string{"data"}, p.Interests())
	assert.Equal(t, "newyork", p.Location())
}

func TestProfileFromFlagsMissing(t *testing.T) {
	cmd := newMatchCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--skills", "go"}))

	_, err := profileFromFlags(cmd)

	var invalid *matching.InvalidProfileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"interests", "location"}, invalid.Fields)
}

func TestAcceptedRecord(t *testing.T) {
	result := matching.Result{Title: "Data Intern", Company: "Acme", Confidence: 60, Reason: "r"}

	record := acceptedRecord(result, profileInput{Skills: []string{"python", "sql"}, Location: "New York"})
	assert.Equal(t, accepted.Record{
		Title:             "Data Intern",
		Company:           "Acme",
		Confidence:        60,
		Reason:            "r",
		PreferredLocation: "New York",
		UserSkills:        "python,sql",
		UserInterests:     "N/A",
	}, record)
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []matching.Result{
		{Title: "Data Intern", Company: "Acme", Location: "NYC", Stipend: "1000", Confidence: 60, Reason: "why"},
		{Title: "Web Intern", Company: "Globex", Location: "Remote", Confidence: 55.5, Reason: "because"},
	})

	assert.Equal(t,
		" 1.  60.0  Data Intern / Acme / NYC\n    stipend: 1000\n    why\n"+
			" 2.  55.5  Web Intern / Globex / Remote\n    because\n",
		buf.String())
}
