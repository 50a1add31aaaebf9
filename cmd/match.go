package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/logger"
	"github.com/spigell/internship-matcher/internal/matching"
	"github.com/spigell/internship-matcher/internal/stats"
)

const (
	PromptYes  = "Yes"
	PromptNo   = "No"
	PromptExit = "exit"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the catalog against a profile given by flags",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringSliceP("skills", "s", nil, "comma-separated skills")
	matchCmd.Flags().StringSliceP("interests", "i", nil, "comma-separated interests")
	matchCmd.Flags().StringP("location", "l", "", "preferred location")
	matchCmd.Flags().StringP("name", "n", "", "name used to sign application letters")
	matchCmd.Flags().Bool("interactive", false, "choose listings to accept after ranking")
}

// profileInput is the raw profile as given on the command line.
type profileInput struct {
	Skills    []string
	Interests []string
	Location  string
}

func profileFromFlags(cmd *cobra.Command) (profileInput, error) {
	var missing []string
	for _, name := range []string{"skills", "interests", "location"} {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return profileInput{}, &matching.InvalidProfileError{Fields: missing}
	}

	skills, _ := cmd.Flags().GetStringSlice("skills")
	interests, _ := cmd.Flags().GetStringSlice("interests")
	location, _ := cmd.Flags().GetString("location")

	return profileInput{Skills: skills, Interests: interests, Location: location}, nil
}

func (in profileInput) profile() matching.Profile {
	return matching.NewProfile(in.Skills, in.Interests, in.Location)
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	input, err := profileFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading the profile", zap.Error(err))
	}

	counters := stats.New()
	store := accepted.New(config.Accepted.File)

	steps, err := newFilters(config.Filters, store, logger)
	if err != nil {
		logger.Fatal("preparing filters", zap.Error(err))
	}

	source := &filtering.Source{
		Inner:  newCatalog(config.Catalog, logger),
		Steps:  steps,
		Logger: logger,
	}

	results, err := newRanker(config.Match, counters, logger).Rank(ctx, input.profile(), source)
	if err != nil {
		logger.Fatal("ranking the catalog", zap.Error(err))
	}

	logger.Info("ranking finished",
		zap.String("catalog", source.Name()),
		zap.Int64("shown", counters.Shown()),
		zap.Int("results", len(results)),
	)

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no listings above the threshold"))
		return
	}

	printResults(os.Stdout, results)

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		return
	}

	name, _ := cmd.Flags().GetString("name")
	letters := newLetterWriter(ctx, config.AI, logger)

	err = acceptInteractively(logger, results, func(r matching.Result) error {
		if err := store.Append(acceptedRecord(r, input)); err != nil {
			return fmt.Errorf("recording accepted match: %w", err)
		}
		counters.IncAccepted()

		logger.Info("match accepted", zap.String("title", r.Title), zap.String("company", r.Company))

		return offerLetter(ctx, letters, r, input, name)
	})
	if err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}

	accuracy := counters.Snapshot()
	logger.Info("session accuracy",
		zap.Int64("total_shown", accuracy.TotalShown),
		zap.Int64("accepted", accuracy.Accepted),
		zap.Float64("accuracy_percent", accuracy.AccuracyPercent),
	)
}

// acceptInteractively lets the user pick listings until they exit or none
// are left. Accepted listings are removed from the choices.
func acceptInteractively(logger *zap.Logger, results []matching.Result, accept func(matching.Result) error) error {
	remaining := append([]matching.Result(nil), results...)

	for len(remaining) > 0 {
		items := make([]string, 0, len(remaining)+1)
		for _, r := range remaining {
			items = append(items, resultLabel(r))
		}

		selectPrompt := promptui.Select{
			Label: "Choose a listing to accept and press ENTER",
			Items: append(items, PromptExit),
			Size:  len(items) + 1,
		}

		idx, _, err := selectPrompt.Run()
		if err != nil {
			return err
		}

		if idx == len(remaining) {
			logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return errExit
		}

		if err := accept(remaining[idx]); err != nil {
			return err
		}

		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return nil
}

func offerLetter(ctx context.Context, letters ai.LetterWriter, r matching.Result, in profileInput, name string) error {
	confirm := promptui.Select{
		Label: "Generate an application letter?",
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := confirm.Run()
	if err != nil {
		return err
	}
	if answer != PromptYes {
		return nil
	}

	letter, err := letters.Write(ctx, ai.LetterRequest{
		Name:      name,
		Title:     r.Title,
		Company:   r.Company,
		Skills:    in.Skills,
		Interests: in.Interests,
	})
	if err != nil {
		return fmt.Errorf("writing letter: %w", err)
	}

	fmt.Printf("\n%s\n\n", letter)
	return nil
}

// acceptedRecord mirrors what the web front-end sends to /accept.
func acceptedRecord(r matching.Result, in profileInput) accepted.Record {
	return accepted.Record{
		Title:             r.Title,
		Company:           r.Company,
		Confidence:        r.Confidence,
		Reason:            r.Reason,
		PreferredLocation: orNA(in.Location),
		UserSkills:        orNA(strings.Join(in.Skills, ",")),
		UserInterests:     orNA(strings.Join(in.Interests, ",")),
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func resultLabel(r matching.Result) string {
	return fmt.Sprintf("%5.1f  %s / %s / %s", r.Confidence, r.Title, r.Company, r.Location)
}

func printResults(w io.Writer, results []matching.Result) {
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, resultLabel(r))
		if r.Stipend != "" {
			fmt.Fprintf(w, "    stipend: %s\n", r.Stipend)
		}
		fmt.Fprintf(w, "    %s\n", r.Reason)
	}
}
