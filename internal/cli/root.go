package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/raychel/internal/model"
)

// Version is set at build time with -ldflags "-X .../cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "raychel",
	Short: "Raychel - a question-answering assistant",
	Long: `Raychel answers natural-language questions with exactly one strategy:

- weather questions go to live OpenWeatherMap data
- questions about recent events go to web search, summarized by the model
- everything else is answered directly by the knowledge model

Run "raychel chat" for an interactive session or "raychel ask" for one question.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands such as serve and chat.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "raychel %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.raychel/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&noCache, "no-cache", false, "disable response caching")
	flags.String("llm-provider", "", "knowledge model provider (ollama, openai, anthropic)")
	flags.String("llm-model", "", "knowledge model name")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// envAliases lists the conventional variable names accepted besides
// RAYCHEL_*. Keys left empty by default must be bound here too, or viper
// never looks them up.
var envAliases = map[string][]string{
	"weather.api_key":      {"WEATHER_API_KEY", "OPENWEATHER_API_KEY"},
	"search.serpapi_key":   {"SERPAPI_KEY", "SERPAPI_API_KEY"},
	"llm.model":            {"MODEL_NAME"},
	"llm.api_key":          nil,
	"llm.base_url":         nil,
	"http.http_proxy":      nil,
	"http.https_proxy":     nil,
	"http.no_proxy":        nil,
	"cache.redis_addr":     {"REDIS_ADDR"},
	"cache.redis_password": {"REDIS_PASSWORD"},
	"server.api_key":       {"API_KEY"},
}

// initConfig reads .env, the config file and environment variables
func initConfig() {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	if err := setDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".raychel"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv reads environment variables that match RAYCHEL_* plus the
// conventional aliases
func bindEnv() {
	viper.SetEnvPrefix("RAYCHEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{"RAYCHEL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		_ = viper.BindEnv(append([]string{key}, names...)...)
	}
}

// setDefaults registers every field of cfg as a viper default, so that
// environment variables can override keys no config file mentions.
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaultTree("", tree)
	return nil
}

func setDefaultTree(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaultTree(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig returns the effective configuration:
// flags > environment > config file > defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyProviderEnv(cfg)
	if noCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyProviderEnv fills model credentials from the variable each provider
// conventionally reads
func applyProviderEnv(cfg *model.Config) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}
