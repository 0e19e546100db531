package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Store.Kind != "sqlite" {
		t.Fatalf("kind=%q", cfg.Store.Kind)
	}
	if cfg.Mode != "recreate" {
		t.Fatalf("mode=%q", cfg.Mode)
	}
	if cfg.Dates.Start != "2022-01-01" || cfg.Dates.End != "2026-01-01" {
		t.Fatalf("dates=%+v", cfg.Dates)
	}
	if err := cfg.ValidateLoad(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if err := cfg.ValidatePrep(); err != nil {
		t.Fatalf("defaults must validate for prep: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		// viper reports explicit missing files as errors on some versions;
		// when it does not, defaults must be intact.
		if cfg.Store.Kind != "sqlite" {
			t.Fatalf("kind=%q", cfg.Store.Kind)
		}
	}
}

func TestLoadReadsFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "salesdw.yaml")
	data := []byte(`
store:
  kind: postgres
  dsn: postgres://localhost/dw
dates:
  start: "2023-01-01"
  end: "2023-12-31"
mode: truncate
log_level: debug
metrics:
  backend: datadog
  tags: "env:prod,team:data"
`)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Kind != "postgres" || cfg.Store.DSN != "postgres://localhost/dw" {
		t.Fatalf("store=%+v", cfg.Store)
	}
	if cfg.Mode != "truncate" {
		t.Fatalf("mode=%q", cfg.Mode)
	}
	if cfg.Dates.Start != "2023-01-01" {
		t.Fatalf("dates=%+v", cfg.Dates)
	}
	if cfg.Metrics.Backend != "datadog" || cfg.Metrics.Tags != "env:prod,team:data" {
		t.Fatalf("metrics=%+v", cfg.Metrics)
	}
	// Values absent from the file keep their defaults.
	if cfg.Input.CustomersFile == "" {
		t.Fatal("default input path lost")
	}
	if cfg.Metrics.Job != "salesdw" {
		t.Fatalf("job=%q", cfg.Metrics.Job)
	}
}

func TestValidateLoad(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing kind", mutate: func(c *Config) { c.Store.Kind = "" }},
		{name: "missing dsn", mutate: func(c *Config) { c.Store.DSN = "" }},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "rebuild" }},
		{name: "missing dates", mutate: func(c *Config) { c.Dates.Start = "" }},
		{name: "missing input", mutate: func(c *Config) { c.Input.SalesFile = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.ValidateLoad(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidatePrep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.RawDir = ""
	if err := cfg.ValidatePrep(); err == nil {
		t.Fatal("expected validation error")
	}
}
