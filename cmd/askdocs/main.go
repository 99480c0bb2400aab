// -----------------------------------------------------------------------
// askdocs - question answering over a document corpus
// -----------------------------------------------------------------------

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported
	serverPort  int
	serverHost  string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Answer questions from a document corpus",
	Long: `askdocs ingests plain-text and markdown documents, embeds them, and answers
questions with an LLM grounded on the most relevant passages.

Running askdocs with no subcommand starts the HTTP service.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run:               runServe,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd, askCmd, indexCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig runs before every subcommand except version.
//
// Startup sequence (REQUIRED ORDER):
// 1. Load config (defaults -> file1 -> file2 -> ... -> .env -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Validate
// 4. Initialize logger
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("askdocs.toml"); err == nil {
			configFiles = append(configFiles, "askdocs.toml")
		} else if _, err := os.Stat("deployments/local/askdocs.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/askdocs.toml")
		}
	}

	cfg, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(cfg, serverPort, serverHost)

	if err := cfg.Validate(); err != nil {
		return err
	}

	config = cfg
	logger = common.SetupLogger(cfg)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Application configuration loaded")

	return nil
}
