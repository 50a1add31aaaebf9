package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/internship-matcher/internal/matching"
)

const (
	app       = "internship-matcher"
	envPrefix = "INTERNSHIP_MATCHER"
)

type Config struct {
	Catalog  *CatalogConfig  `mapstructure:"catalog"`
	Accepted *AcceptedConfig `mapstructure:"accepted"`
	Match    *MatchConfig    `mapstructure:"match"`
	Server   *ServerConfig   `mapstructure:"server"`
	Filters  *FiltersConfig  `mapstructure:"filters"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

type AcceptedConfig struct {
	File string `mapstructure:"file"`
}

type MatchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Limit     int     `mapstructure:"limit"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate-limit"`
	Burst     int     `mapstructure:"burst"`
}

type FiltersConfig struct {
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	SkipAccepted     bool     `mapstructure:"skip-accepted"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "internship-matcher ranks internship listings against a student profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is internship-matcher.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("catalog", "", "path to the internships CSV catalog")
	flags.String("catalog-url", "", "URL of a remote internships CSV catalog, takes precedence over --catalog")
	flags.String("accepted-file", "", "CSV file accepted matches are appended to")
	flags.Float64("threshold", matching.DefaultThreshold, "minimum confidence a listing must exceed")
	flags.Int("limit", matching.DefaultLimit, "maximum number of listings returned")

	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("json", flags.Lookup("json"))
	viper.BindPFlag("catalog.path", flags.Lookup("catalog"))
	viper.BindPFlag("catalog.url", flags.Lookup("catalog-url"))
	viper.BindPFlag("accepted.file", flags.Lookup("accepted-file"))
	viper.BindPFlag("match.threshold", flags.Lookup("threshold"))
	viper.BindPFlag("match.limit", flags.Lookup("limit"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "internships.csv")
	v.SetDefault("catalog.url", "")
	v.SetDefault("accepted.file", "accepted_internships.csv")
	v.SetDefault("match.threshold", matching.DefaultThreshold)
	v.SetDefault("match.limit", matching.DefaultLimit)
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.rate-limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("filters.exclude-companies", []string{})
	v.SetDefault("filters.skip-accepted", false)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// A missing .env is fine, everything has defaults.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly requested config must exist and parse.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return unmarshalConfig(viper.GetViper())
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Catalog == nil {
		config.Catalog = &CatalogConfig{}
	}
	if config.Accepted == nil {
		config.Accepted = &AcceptedConfig{}
	}
	if config.Match == nil {
		config.Match = &MatchConfig{Threshold: matching.DefaultThreshold, Limit: matching.DefaultLimit}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
