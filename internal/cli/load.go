package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"salesdw/internal/metrics"
	"salesdw/internal/metrics/datadog"
	"salesdw/internal/storage"
	"salesdw/internal/warehouse"
)

var (
	loadMode      string
	dateStart     string
	dateEnd       string
	customersFile string
	productsFile  string
	salesFile     string
	metricsFlag   string

	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Normalize cleaned extracts and load them into the warehouse",
		RunE:  runLoad,
	}
)

func init() {
	loadCmd.Flags().StringVar(&loadMode, "mode", "", "store preparation mode: recreate or truncate")
	loadCmd.Flags().StringVar(&dateStart, "date-start", "", "calendar dimension start (YYYY-MM-DD)")
	loadCmd.Flags().StringVar(&dateEnd, "date-end", "", "calendar dimension end (YYYY-MM-DD)")
	loadCmd.Flags().StringVar(&customersFile, "customers", "", "cleaned customers CSV path")
	loadCmd.Flags().StringVar(&productsFile, "products", "", "cleaned products CSV path")
	loadCmd.Flags().StringVar(&salesFile, "sales", "", "cleaned sales CSV path")
	loadCmd.Flags().StringVar(&metricsFlag, "metrics-backend", "", "metrics backend: none or datadog")
}

func runLoad(cmd *cobra.Command, args []string) error {
	applyLoadFlagOverrides()
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()

	setupMetrics(ctx)
	defer func() {
		if err := metrics.Close(); err != nil {
			log.Warn().Err(err).Msg("metrics close")
		}
	}()

	// An embedded SQLite store needs its directory to exist before open.
	if cfg.Store.Kind == "sqlite" && !strings.Contains(cfg.Store.DSN, ":memory:") {
		if dir := filepath.Dir(cfg.Store.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
	}

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Store.Kind, DSN: cfg.Store.DSN})
	if err != nil {
		return err
	}
	defer repo.Close()

	p := warehouse.New(repo, warehouse.Config{
		CustomersFile: cfg.Input.CustomersFile,
		ProductsFile:  cfg.Input.ProductsFile,
		SalesFile:     cfg.Input.SalesFile,
		DateStart:     cfg.Dates.Start,
		DateEnd:       cfg.Dates.End,
		Mode:          warehouse.Mode(cfg.Mode),
	}, log)

	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}

	for _, t := range warehouse.CreateOrder() {
		log.Info().Str("table", t).Int64("rows", sum.Counts[t]).Msg("final row count")
	}
	return nil
}

func applyLoadFlagOverrides() {
	if loadMode != "" {
		cfg.Mode = loadMode
	}
	if dateStart != "" {
		cfg.Dates.Start = dateStart
	}
	if dateEnd != "" {
		cfg.Dates.End = dateEnd
	}
	if customersFile != "" {
		cfg.Input.CustomersFile = customersFile
	}
	if productsFile != "" {
		cfg.Input.ProductsFile = productsFile
	}
	if salesFile != "" {
		cfg.Input.SalesFile = salesFile
	}
	if metricsFlag != "" {
		cfg.Metrics.Backend = metricsFlag
	}
}

func setupMetrics(ctx context.Context) {
	switch cfg.Metrics.Backend {
	case "datadog":
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName: cfg.Metrics.Job,
			Tags:    datadog.ParseTagsCSV(cfg.Metrics.Tags),
		})
		if err != nil {
			log.Warn().Err(err).Msg("metrics: datadog init failed; metrics disabled")
			return
		}
		metrics.SetBackend(b)
		log.Info().Str("backend", "datadog").Str("job", cfg.Metrics.Job).Msg("metrics enabled")
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Warn().Str("backend", cfg.Metrics.Backend).Msg("unknown metrics backend; metrics disabled")
	}
}
