package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phorde/freefleet/internal/config"
	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

var (
	flagMode          string
	flagRaceCount     int
	flagFallbackDepth int
	flagConfigDir     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Discover, verify, and race free-tier language models",
	Long: `fleet sweeps configured providers for genuinely free models, ranks them
per functional category, and competitively dispatches prompts across the
best candidates with staged fallback.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagConfigDir != "" {
			if err := os.Chdir(flagConfigDir); err != nil {
				return fmt.Errorf("entering config directory: %w", err)
			}
		}

		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("mode") {
			loaded.Fleet.Mode = domain.FleetMode(flagMode)
		}
		if cmd.Flags().Changed("race-count") {
			loaded.Fleet.RaceCount = flagRaceCount
		}
		if cmd.Flags().Changed("fallback-depth") {
			loaded.Fleet.FallbackDepth = flagFallbackDepth
		}
		cfg = loaded

		format := cfg.Logging.Format
		if format == "" {
			format = defaultLogFormat(cfg.Server.Env)
		}

		logger.Initialize(logger.Config{
			Level:      cfg.Logging.Level,
			Format:     format,
			File:       cfg.Logging.FilePath,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
		return nil
	},
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "fleet mode: ultra_free, balanced, or SOTA_only")
	rootCmd.PersistentFlags().IntVar(&flagRaceCount, "race-count", 0, "candidates raced per wave")
	rootCmd.PersistentFlags().IntVar(&flagFallbackDepth, "fallback-depth", 0, "fallback waves after the primary race")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "directory containing config.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
