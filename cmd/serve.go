package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/logger"
	"github.com/spigell/internship-matcher/internal/metrics"
	"github.com/spigell/internship-matcher/internal/server"
	"github.com/spigell/internship-matcher/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (default :5000)")
	serveCmd.Flags().Float64("rate-limit", 0, "requests per second allowed per client, 0 disables limiting")
	serveCmd.Flags().Int("burst", 0, "burst size of the per-client rate limiter")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.rate-limit", serveCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("server.burst", serveCmd.Flags().Lookup("burst"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the internship-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

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

	srv, err := server.New(server.Config{
		Addr:      config.Server.Addr,
		RateLimit: config.Server.RateLimit,
		Burst:     config.Server.Burst,
	}, server.Deps{
		Ranker:   newRanker(config.Match, counters, logger),
		Catalog:  source,
		Accepted: store,
		Counters: counters,
		Letters:  newLetterWriter(ctx, config.AI, logger),
		Filters:  steps,
		Metrics:  metrics.New(counters),
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("creating the server", zap.Error(err))
	}

	logger.Info("serving",
		zap.String("addr", config.Server.Addr),
		zap.String("catalog", source.Name()),
		zap.String("accepted_file", store.Path()),
		zap.Float64("threshold", config.Match.Threshold),
		zap.Int("limit", config.Match.Limit),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
