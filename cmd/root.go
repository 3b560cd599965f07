package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/transcribe-relay/pkg/config"
	"github.com/killallgit/transcribe-relay/pkg/logging"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcribe-relay",
	Short: "Transcribe Relay API server",
	Long: `Transcribe Relay API - relays audio uploads to AssemblyAI

The relay accepts one audio file per request, forwards it to the
transcription provider, hands back the provider's job id and proxies
status queries. Finished transcripts are stored locally.

Features:
  • Multipart audio intake with size and content type checks
  • Provider status returned verbatim
  • Idempotent local transcript records (SQLite or PostgreSQL)
  • Optional background reconciliation of unfinished jobs`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides config")
}

// loadConfig loads the configuration when a command needs it.
// Commands that only print help or version never call it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if f := cmd.Flag("log-level"); f != nil && f.Value.String() != "" {
		level = f.Value.String()
	}
	logging.SetLevel(level)

	return cfg, nil
}
