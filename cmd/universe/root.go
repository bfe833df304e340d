package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/universe/internal/pkg/logger"
	"github.com/yigit/universe/internal/server"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "universe",
	Short: "UniVerse university community site",
	Long: `Serves the UniVerse site and maintains its workbook. Data is read from
Google Sheets, PostgreSQL or SQLite, falling back to the bundled sample data.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to the YAML configuration file")
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return server.DefaultConfigPath
}
