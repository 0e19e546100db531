package warehouse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"salesdw/internal/frame"
	"salesdw/internal/metrics"
	"salesdw/internal/storage"
	"salesdw/internal/transform"
)

// Loader writes prepared frames into the warehouse. Dimension loads insert
// unconditionally; the fact load filters against key sets read back from
// the store, so referential integrity reflects what was actually committed,
// not the in-memory pre-load frames.
type Loader struct {
	Repo storage.Repository
	Log  zerolog.Logger
}

// LoadDimension bulk-inserts dimension rows. No FK checks apply.
func (l *Loader) LoadDimension(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	n, err := l.Repo.InsertRows(ctx, table, columns, rows)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", table, err)
	}
	l.Log.Info().Str("table", table).Int64("inserted", n).Msg("dimension loaded")
	metrics.IncCounter("warehouse.rows_inserted", float64(n), metrics.Labels{"table": table})
	return n, nil
}

// FactResult reports the outcome of a fact load.
type FactResult struct {
	Inserted int64
	// Filtered counts rows dropped by the referential filter. Dropping is a
	// data-quality measure, never an error.
	Filtered int
}

// LoadSales filters the fact frame against the dimension key sets currently
// in the store, reassigns sale_id as a dense 1..N sequence over the
// survivors, and bulk-inserts them. An empty survivor set is reported as a
// warning, not a failure.
//
// The frame must already be normalized: segment_id and product_id hold
// extracted int64 keys, measures are coerced, rows missing sale_amount are
// gone.
func (l *Loader) LoadSales(ctx context.Context, f *frame.Frame) (FactResult, error) {
	segIdx := f.ColumnIndex("segment_id")
	prodIdx := f.ColumnIndex("product_id")
	if segIdx < 0 || prodIdx < 0 {
		return FactResult{}, fmt.Errorf("load sales: frame missing key columns")
	}

	segments, err := l.Repo.SelectIntKeys(ctx, TableCustomer, "segment_id")
	if err != nil {
		return FactResult{}, fmt.Errorf("load sales: read customer keys: %w", err)
	}
	products, err := l.Repo.SelectIntKeys(ctx, TableProduct, "product_id")
	if err != nil {
		return FactResult{}, fmt.Errorf("load sales: read product keys: %w", err)
	}

	kept := frame.New(f.Columns...)
	kept.Rows = make([][]any, 0, len(f.Rows))
	filtered := 0
	for _, r := range f.Rows {
		seg, segOK := r[segIdx].(int64)
		prod, prodOK := r[prodIdx].(int64)
		if !segOK || !prodOK {
			filtered++
			continue
		}
		if _, ok := segments[seg]; !ok {
			filtered++
			continue
		}
		if _, ok := products[prod]; !ok {
			filtered++
			continue
		}
		kept.Rows = append(kept.Rows, r)
	}

	if filtered > 0 {
		l.Log.Info().Str("table", TableSales).
			Int("before", f.Len()).Int("after", kept.Len()).
			Msg("fact rows filtered by referential check")
		metrics.IncCounter("warehouse.rows_filtered", float64(filtered), metrics.Labels{"table": TableSales})
	}

	if kept.Len() == 0 {
		l.Log.Warn().Str("table", TableSales).Msg("no valid fact rows to insert")
		return FactResult{Filtered: filtered}, nil
	}

	// Surrogate keys are assigned over the final row order; source
	// transaction identifiers were discarded during normalization.
	if err := transform.AssignSequential(kept, "sale_id"); err != nil {
		return FactResult{}, err
	}

	n, err := l.Repo.InsertRows(ctx, TableSales, kept.Columns, kept.Rows)
	if err != nil {
		return FactResult{}, fmt.Errorf("load %s: %w", TableSales, err)
	}
	l.Log.Info().Str("table", TableSales).Int64("inserted", n).Msg("fact loaded")
	metrics.IncCounter("warehouse.rows_inserted", float64(n), metrics.Labels{"table": TableSales})

	return FactResult{Inserted: n, Filtered: filtered}, nil
}
