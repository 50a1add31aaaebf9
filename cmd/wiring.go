package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/ai/gemini"
	"github.com/spigell/internship-matcher/internal/catalog"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/matching"
	"github.com/spigell/internship-matcher/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

func newCatalog(cfg *CatalogConfig, logger *zap.Logger) catalog.Source {
	if url := strings.TrimSpace(cfg.URL); url != "" {
		return catalog.NewHTTP(url, logger)
	}
	return catalog.NewFile(cfg.Path)
}

// newFilters builds every pre-ranking filter and disables the ones the
// configuration does not ask for.
func newFilters(cfg *FiltersConfig, store *accepted.Store, logger *zap.Logger) ([]filtering.Filter, error) {
	steps := []filtering.Filter{
		filtering.NewExcludedCompanies(cfg.ExcludeCompanies),
		filtering.NewAcceptedHistory(store, logger),
	}

	if len(cfg.ExcludeCompanies) == 0 {
		filtering.DisableByName(steps, "excluded_companies", "no companies configured")
	}
	if !cfg.SkipAccepted {
		filtering.DisableByName(steps, "accepted_history", "filters.skip-accepted is not set")
	}

	if err := filtering.Validate(steps); err != nil {
		return nil, err
	}

	return steps, nil
}

func newRanker(cfg *MatchConfig, recorder matching.Recorder, logger *zap.Logger) *matching.Ranker {
	return matching.NewRanker(nil, recorder,
		matching.WithThreshold(cfg.Threshold),
		matching.WithLimit(cfg.Limit),
		matching.WithLogger(logger),
	)
}

// newLetterWriter returns the static template writer unless AI letters are
// enabled. A generator that cannot be built is logged and skipped.
func newLetterWriter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.LetterWriter {
	if cfg == nil || !cfg.Enabled {
		return ai.Static{}
	}

	writer, err := newGeminiWriter(ctx, cfg, logger)
	if err != nil {
		logger.Warn("ai letters disabled, using static template", zap.Error(err))
		return ai.Static{}
	}

	return &ai.Fallback{Primary: writer, Secondary: ai.Static{}, Logger: logger}
}

func newGeminiWriter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Writer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: gcfg.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries,
		logger.With(zap.Int("ai_retry_attempts", gcfg.MaxRetries)),
	)
	if err != nil {
		return nil, err
	}

	return gemini.NewWriter(generator, gcfg.MaxLogLength, logger), nil
}
