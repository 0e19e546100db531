// Package config handles configuration for salesdw. Values come from an
// optional YAML config file plus CLI flag overrides; the resolved Config is
// passed explicitly into the pipeline, never read through package globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for salesdw.
type Config struct {
	// Store selects and locates the warehouse backend.
	Store StoreConfig `mapstructure:"store"`

	// Input locates the cleaned extracts consumed by the load command and
	// the raw extracts consumed by prep.
	Input InputConfig `mapstructure:"input"`

	// Dates is the inclusive calendar-dimension range, YYYY-MM-DD.
	Dates DateConfig `mapstructure:"dates"`

	// Mode is the store preparation mode: "recreate" or "truncate".
	Mode string `mapstructure:"mode"`

	// LogLevel controls verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Metrics selects the metrics backend: "none" or "datadog".
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type StoreConfig struct {
	// Kind is a registered backend kind: sqlite, postgres, mssql.
	Kind string `mapstructure:"kind"`
	DSN  string `mapstructure:"dsn"`
}

type InputConfig struct {
	CustomersFile string `mapstructure:"customers_file"`
	ProductsFile  string `mapstructure:"products_file"`
	SalesFile     string `mapstructure:"sales_file"`

	// RawDir and ProcessedDir drive the prep command.
	RawDir       string `mapstructure:"raw_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
}

type DateConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type MetricsConfig struct {
	Backend string `mapstructure:"backend"`
	Job     string `mapstructure:"job"`
	Tags    string `mapstructure:"tags"`
}

// DefaultConfig returns a Config with default values: an embedded SQLite
// warehouse under data/dw and the standard cleaned-extract locations.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Kind: "sqlite",
			DSN:  filepath.Join("data", "dw", "keylime_sales.db"),
		},
		Input: InputConfig{
			CustomersFile: filepath.Join("data", "processed", "customers_clean.csv"),
			ProductsFile:  filepath.Join("data", "processed", "key_lime_products_clean.csv"),
			SalesFile:     filepath.Join("data", "processed", "sales_fact_clean.csv"),
			RawDir:        filepath.Join("data", "raw"),
			ProcessedDir:  filepath.Join("data", "processed"),
		},
		Dates: DateConfig{
			Start: "2022-01-01",
			End:   "2026-01-01",
		},
		Mode:     "recreate",
		LogLevel: "info",
		Metrics: MetricsConfig{
			Backend: "none",
			Job:     "salesdw",
		},
	}
}

// Load reads configuration from a config file. Locations, in order of
// precedence: the explicit configFile parameter, ./salesdw.yaml, then
// ~/.config/salesdw/config.yaml. A missing file is not an error; defaults
// apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("salesdw")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "salesdw"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration shared by every command.
func (c *Config) Validate() error {
	if c.Store.Kind == "" {
		return fmt.Errorf("store kind is required")
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required")
	}
	return nil
}

// ValidateLoad checks configuration required by the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Mode != "recreate" && c.Mode != "truncate" {
		return fmt.Errorf("mode must be 'recreate' or 'truncate'")
	}
	if c.Dates.Start == "" || c.Dates.End == "" {
		return fmt.Errorf("date range start and end are required")
	}
	for _, f := range []string{c.Input.CustomersFile, c.Input.ProductsFile, c.Input.SalesFile} {
		if f == "" {
			return fmt.Errorf("all three input file paths are required")
		}
	}
	return nil
}

// ValidatePrep checks configuration required by the prep command.
func (c *Config) ValidatePrep() error {
	if c.Input.RawDir == "" || c.Input.ProcessedDir == "" {
		return fmt.Errorf("raw_dir and processed_dir are required")
	}
	return nil
}
