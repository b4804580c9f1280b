package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/raychel/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Raychel configuration",
	Long: `Manage Raychel configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (RAYCHEL_*, WEATHER_API_KEY, SERPAPI_KEY, ...)
3. Config file (~/.raychel/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after defaults, config file, environment and flags are applied. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		return writeConfig(cmd.OutOrStdout(), cfg.Redacted())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.raychel/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".raychel")
		configPath := filepath.Join(configDir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'raychel config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		// Secrets may end up in this file
		f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		if err := writeDefaultConfig(f); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  raychel config show\n")
		fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
		fmt.Fprintf(out, "  $EDITOR %s\n\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func writeConfig(w io.Writer, cfg model.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return enc.Close()
}

// writeDefaultConfig writes the defaults as YAML between explanatory comments
func writeDefaultConfig(w io.Writer) error {
	header := `# Raychel Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (RAYCHEL_*, with "." replaced by "_")
#   3. This config file
#   4. Built-in defaults

`
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	if err := writeConfig(w, *model.DefaultConfig()); err != nil {
		return err
	}

	footer := `
# API keys (recommended to use environment variables or .env instead):
#   export WEATHER_API_KEY=...
#   export SERPAPI_KEY=...
#   export OPENAI_API_KEY=sk-...          # llm.provider: openai
#   export ANTHROPIC_API_KEY=sk-ant-...   # llm.provider: anthropic
#   export OLLAMA_BASE_URL=http://localhost:11434
`
	_, err := io.WriteString(w, footer)
	return err
}
