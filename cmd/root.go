// Package cmd implements the command-line interface for the catalog
// scraper service.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shelfwise/crawler/internal/config"
	"github.com/shelfwise/crawler/internal/logger"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "crawler",
		Short: "A catalog scraper for rendered storefront pages",
		Long: `Scrapes navigation, categories, products and product details
from a rendered storefront into PostgreSQL, with an HTTP API and a
background worker pool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are visible to viper.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or /etc/crawler/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(scrapeCommand())
	rootCmd.AddCommand(jobsCommand())
}

// loadConfig reads configuration and builds the logger shared by all
// subcommands.
func loadConfig() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Logging
	if debug || cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if cfg.App.Environment == "development" {
		logCfg.Development = true
	}

	return cfg, logger.New(logCfg), nil
}
