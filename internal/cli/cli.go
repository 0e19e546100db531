// Package cli implements the command-line interface for salesdw.
package cli

import (
	"github.com/spf13/cobra"

	"salesdw/internal/config"
	"salesdw/internal/logging"

	"github.com/rs/zerolog"
)

var (
	// Global flags
	cfgFile   string
	storeKind string
	storeDSN  string
	logLevel  string

	// Resolved at PersistentPreRunE
	cfg *config.Config
	log zerolog.Logger

	rootCmd = &cobra.Command{
		Use:   "salesdw",
		Short: "Batch ETL for the key lime sales data warehouse",
		Long: `salesdw cleans raw sales extracts and loads them into a relational
star-schema warehouse: a generated calendar dimension, customer-segment and
product dimensions, and a referentially validated sales fact table.

The prep command scrubs raw CSV extracts into cleaned files; the load
command normalizes the cleaned files and performs an idempotent
truncate-or-recreate load into the configured store.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./salesdw.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "store backend kind (sqlite, postgres, mssql)")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "dsn", "", "store DSN / database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(prepCmd)
}

// initConfig loads the config file and applies flag overrides. Flags take
// precedence over file values.
func initConfig() error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if storeKind != "" {
		c.Store.Kind = storeKind
	}
	if storeDSN != "" {
		c.Store.DSN = storeDSN
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	log = logging.New(logging.Config{Level: cfg.LogLevel, Pretty: true})
	return nil
}
