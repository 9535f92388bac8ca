package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/reviewlens/internal/config"
	"github.com/blackwell-systems/reviewlens/internal/logger"
	"github.com/blackwell-systems/reviewlens/internal/store"
)

var (
	dbPath     string
	dbDriver   string
	configPath string
	logLevel   string

	// cfg and log are set by loadSettings before any subcommand runs.
	cfg = config.Default()
	log = logger.Nop()

	// RootCmd is the root command for reviewlens
	RootCmd = &cobra.Command{
		Use:   "reviewlens",
		Short: "Categorize app reviews and flag score anomalies",
		Long: `reviewlens analyzes mobile-app review datasets.

It sorts every review into one of eight quality categories using an ordered
rule table, and flags reviews whose score sits unusually far from their
application's average (|z| above a threshold, 1.5 by default).

Quick Start:
  1. reviewlens import reviews.csv     (or: reviewlens import --simulate)
  2. reviewlens categorize
  3. reviewlens anomalies

Reports:
  • categorize   per-application category counts and profiles
  • anomalies    score outliers per application
  • quality      quality indicators and review-length analysis
  • rank         application ranking and metric correlations
  • summary      sentiment and score aggregations
  • export       JSON Lines documents for a document store`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("reviewlens: review categorization and score anomaly detection")
			fmt.Println()
			path, err := getDBPath()
			if err == nil && cfg.Database.Driver == store.DriverSQLite {
				if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
					fmt.Println("Run 'reviewlens import <file.csv>' or 'reviewlens import --simulate' to get started.")
					fmt.Println("Run 'reviewlens --help' for the full reference.")
					return nil
				}
			}
			fmt.Println("Tip: Run 'reviewlens categorize' or 'reviewlens anomalies' to analyze the imported reviews.")
			fmt.Println("     Run 'reviewlens --help' for all commands.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path or DSN (default: ~/.reviewlens/reviewlens.db)")
	RootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "database driver: sqlite or postgres (default from config, else sqlite)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/reviewlens/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(categorizeCmd)
	RootCmd.AddCommand(anomaliesCmd)
	RootCmd.AddCommand(qualityCmd)
	RootCmd.AddCommand(rankCmd)
	RootCmd.AddCommand(summaryCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = log.Sync() }()
	return RootCmd.Execute()
}

// loadSettings reads .env, the config file and the environment, then
// applies global flag overrides and builds the logger.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbDriver != "" {
		loaded.Database.Driver = dbDriver
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if dbPath != "" {
		loaded.Database.DSN = dbPath
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	log = l
	log.Debug("settings loaded",
		zap.String("driver", cfg.Database.Driver),
		zap.Float64("threshold", cfg.Analysis.Threshold))
	return nil
}

// getDBPath returns the database path or DSN: the --db flag, then the
// configured DSN, then ~/.reviewlens/reviewlens.db.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.Database.DSN != "" {
		return cfg.Database.DSN, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".reviewlens")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reviewlens directory: %w", err)
	}

	return filepath.Join(dir, "reviewlens.db"), nil
}

// openStore opens the configured store.
func openStore() (*store.Store, error) {
	dsn, err := getDBPath()
	if err != nil {
		return nil, err
	}
	driver := cfg.Database.Driver
	if dbDriver != "" {
		driver = dbDriver
	}

	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Debug("opened store", zap.String("driver", st.Driver()))
	return st, nil
}
