// Package transform implements the normalization stages that turn cleaned
// source extracts into warehouse-shaped frames: column renaming to the
// canonical schema, surrogate-key extraction from prefixed codes, key-based
// deduplication, and numeric coercion.
package transform

import (
	"fmt"
	"strings"

	"salesdw/internal/frame"
)

// Mapping describes how one entity's raw extract maps onto its canonical
// warehouse columns. Rename keys are raw headers after lower-casing and
// trimming; every canonical column is required.
type Mapping struct {
	Entity  string
	Rename  map[string]string
	Columns []string
}

// Static per-entity mappings. Raw headers not listed here (and not already
// canonical) are dropped silently.
var (
	Customers = Mapping{
		Entity: "customer",
		Rename: map[string]string{
			"customersegmentid": "segment_id",
			"customersegment":   "segment_name",
		},
		Columns: []string{"segment_id", "segment_name"},
	}

	Products = Mapping{
		Entity: "product",
		Rename: map[string]string{
			"productid":      "product_id",
			"productvariant": "variant_name",
		},
		Columns: []string{"product_id", "variant_name"},
	}

	Sales = Mapping{
		Entity: "sales",
		Rename: map[string]string{
			"transactionid":     "sale_id",
			"customersegmentid": "segment_id",
			"productid":         "product_id",
			"unitssold":         "units_sold",
			"revenue":           "sale_amount",
			"date":              "sale_date",
			"profitmargin":      "profit_margin",
		},
		Columns: []string{"sale_id", "segment_id", "product_id", "units_sold", "sale_amount", "sale_date", "profit_margin"},
	}
)

// SchemaMismatchError reports canonical columns that could not be found in
// the source extract after renaming. It aborts the entity's load.
type SchemaMismatchError struct {
	Entity  string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: missing required columns after rename: %s", e.Entity, strings.Join(e.Missing, ", "))
}

// NormalizeColumns maps a raw frame onto the canonical column set for the
// entity. Headers are matched case-insensitively with surrounding whitespace
// ignored; unrecognized columns are dropped. Missing canonical columns fail
// with *SchemaMismatchError.
func NormalizeColumns(f *frame.Frame, m Mapping) (*frame.Frame, error) {
	src := make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		name := strings.ToLower(strings.TrimSpace(c))
		if canonical, ok := m.Rename[name]; ok {
			name = canonical
		}
		if _, dup := src[name]; dup {
			continue // first occurrence wins for duplicated headers
		}
		src[name] = i
	}

	idx := make([]int, len(m.Columns))
	var missing []string
	for i, c := range m.Columns {
		si, ok := src[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[i] = si
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Entity: m.Entity, Missing: missing}
	}

	out := frame.New(m.Columns...)
	out.Rows = make([][]any, 0, len(f.Rows))
	for _, r := range f.Rows {
		row := make([]any, len(idx))
		for i, si := range idx {
			if si < len(r) {
				row[i] = r[si]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
