// Package warehouse implements the normalization and load pipeline: cleaned
// extracts are renamed to the star schema's canonical columns, surrogate
// keys are extracted from prefixed codes, duplicates and orphans are
// dropped, and the result is loaded idempotently into the target store.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"salesdw/internal/dimdate"
	"salesdw/internal/frame"
	"salesdw/internal/metrics"
	"salesdw/internal/parser/csv"
	"salesdw/internal/storage"
	"salesdw/internal/transform"
)

// Mode selects how the run prepares the target store.
//
// ModeRecreate drops and recreates all four tables. ModeTruncate ensures
// the schema exists, then deletes all rows, preserving the schema. The two
// concerns are deliberately separate modes; both leave an empty, correctly
// shaped store, so a run is idempotent either way.
type Mode string

const (
	ModeRecreate Mode = "recreate"
	ModeTruncate Mode = "truncate"
)

// Config is the full set of inputs for one pipeline run, passed in
// explicitly at construction. There is no process-wide path state.
type Config struct {
	CustomersFile string
	ProductsFile  string
	SalesFile     string

	// Inclusive date-dimension range, YYYY-MM-DD.
	DateStart string
	DateEnd   string

	Mode Mode
}

// MissingInputError reports an absent source file. It aborts the run before
// any load is attempted for that entity.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input file: %s", e.Path)
}

// Summary is the observability output of a successful run: final row count
// per table plus the aggregate data-quality drop counts.
type Summary struct {
	Counts map[string]int64

	// Dropped counts rows removed per entity before load (failed key
	// extraction, duplicate keys, missing required measures).
	Dropped map[string]int

	// SalesFiltered counts fact rows dropped by the referential filter.
	SalesFiltered int
}

// Pipeline sequences the whole run. Execution is strictly sequential:
// dimensions must be committed before the fact load because the referential
// filter reads key sets back from the store.
type Pipeline struct {
	Repo storage.Repository
	Cfg  Config
	Log  zerolog.Logger
}

func New(repo storage.Repository, cfg Config, log zerolog.Logger) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = ModeRecreate
	}
	return &Pipeline{Repo: repo, Cfg: cfg, Log: log}
}

// Run executes the pipeline: prepare store → date dimension → customer →
// product → sales → row-count report. Structural failures (missing file,
// schema mismatch, store write error) abort the run; row-level data-quality
// issues are recovered by exclusion and surfaced in the Summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if err := p.prepareStore(ctx); err != nil {
		return nil, err
	}

	loader := &Loader{Repo: p.Repo, Log: p.Log}
	sum := &Summary{
		Counts:  make(map[string]int64, 4),
		Dropped: make(map[string]int, 3),
	}

	if err := p.loadDateDimension(ctx, loader); err != nil {
		return nil, err
	}

	if err := p.loadEntityDimension(ctx, loader, p.Cfg.CustomersFile, transform.Customers, TableCustomer, "segment_id", 'C', sum); err != nil {
		return nil, err
	}
	if err := p.loadEntityDimension(ctx, loader, p.Cfg.ProductsFile, transform.Products, TableProduct, "product_id", 'P', sum); err != nil {
		return nil, err
	}

	if err := p.loadSalesFact(ctx, loader, sum); err != nil {
		return nil, err
	}

	if err := p.reportCounts(ctx, sum); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	p.Log.Info().Dur("duration", elapsed.Truncate(time.Millisecond)).Msg("load completed")
	metrics.SetGauge("warehouse.run_duration_ms", float64(elapsed.Milliseconds()), nil)
	return sum, nil
}

// prepareStore applies the configured mode. Both modes are safe on a store
// that has never been initialized.
func (p *Pipeline) prepareStore(ctx context.Context) error {
	switch p.Cfg.Mode {
	case ModeRecreate:
		if err := p.Repo.DropTables(ctx, DropOrder()); err != nil {
			return err
		}
		if err := p.Repo.CreateTables(ctx, Tables()); err != nil {
			return err
		}
		p.Log.Info().Msg("schema recreated")
	case ModeTruncate:
		if err := p.Repo.CreateTables(ctx, Tables()); err != nil {
			return err
		}
		if err := p.Repo.DeleteAllRows(ctx, DropOrder()); err != nil {
			return err
		}
		p.Log.Info().Msg("existing rows deleted, schema preserved")
	default:
		return fmt.Errorf("unknown run mode %q", p.Cfg.Mode)
	}
	return nil
}

func (p *Pipeline) loadDateDimension(ctx context.Context, loader *Loader) error {
	rows, err := dimdate.Generate(p.Cfg.DateStart, p.Cfg.DateEnd)
	if err != nil {
		return err
	}
	_, err = loader.LoadDimension(ctx, TableDimDate, dimdate.Columns(), dimdate.Values(rows))
	return err
}

// loadEntityDimension runs the shared dimension path: read → rename →
// extract surrogate keys → dedupe → insert.
func (p *Pipeline) loadEntityDimension(
	ctx context.Context,
	loader *Loader,
	path string,
	mapping transform.Mapping,
	table string,
	keyColumn string,
	prefix rune,
	sum *Summary,
) error {
	f, err := p.readInput(ctx, path, mapping)
	if err != nil {
		return err
	}

	f, badKeys, err := transform.ExtractKeyColumn(f, keyColumn, prefix)
	if err != nil {
		return err
	}
	f, dups, err := transform.DedupeByKey(f, keyColumn)
	if err != nil {
		return err
	}
	sum.Dropped[table] = badKeys + dups
	if badKeys+dups > 0 {
		p.Log.Info().Str("table", table).
			Int("bad_keys", badKeys).Int("duplicates", dups).
			Msg("rows removed during normalization")
	}

	_, err = loader.LoadDimension(ctx, table, f.Columns, f.Rows)
	return err
}

func (p *Pipeline) loadSalesFact(ctx context.Context, loader *Loader, sum *Summary) error {
	f, err := p.readInput(ctx, p.Cfg.SalesFile, transform.Sales)
	if err != nil {
		return err
	}

	f, badSeg, err := transform.ExtractKeyColumn(f, "segment_id", 'C')
	if err != nil {
		return err
	}
	f, badProd, err := transform.ExtractKeyColumn(f, "product_id", 'P')
	if err != nil {
		return err
	}
	if err := transform.CoerceFloat(f, "units_sold", "sale_amount", "profit_margin"); err != nil {
		return err
	}
	f, noAmount, err := transform.DropMissing(f, "sale_amount")
	if err != nil {
		return err
	}

	dropped := badSeg + badProd + noAmount
	sum.Dropped[TableSales] = dropped
	if dropped > 0 {
		p.Log.Info().Str("table", TableSales).
			Int("bad_keys", badSeg+badProd).Int("missing_amount", noAmount).
			Msg("rows removed during normalization")
	}

	res, err := loader.LoadSales(ctx, f)
	if err != nil {
		return err
	}
	sum.SalesFiltered = res.Filtered
	return nil
}

// readInput opens one cleaned extract and normalizes its columns. A missing
// file is a structural failure, reported before any rows are touched.
func (p *Pipeline) readInput(ctx context.Context, path string, mapping transform.Mapping) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, err
	}

	p.Log.Info().Str("file", path).Str("entity", mapping.Entity).Msg("loading input")
	raw, err := csv.ReadFile(path, csv.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return transform.NormalizeColumns(raw, mapping)
}

func (p *Pipeline) reportCounts(ctx context.Context, sum *Summary) error {
	for _, t := range CreateOrder() {
		n, err := p.Repo.CountRows(ctx, t)
		if err != nil {
			return fmt.Errorf("count %s: %w", t, err)
		}
		sum.Counts[t] = n
		p.Log.Info().Str("table", t).Int64("rows", n).Msg("table row count")
		metrics.SetGauge("warehouse.table_rows", float64(n), metrics.Labels{"table": t})
	}
	return nil
}
