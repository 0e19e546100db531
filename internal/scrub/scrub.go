// Package scrub implements the raw-extract cleaning pass that runs before
// the warehouse load: it standardizes headers, trims cell whitespace, drops
// fully-empty rows, drops exact duplicate rows, and drops rows missing a
// value in a required column. The output feeds the load pipeline.
package scrub

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"salesdw/internal/frame"
	parsecsv "salesdw/internal/parser/csv"
)

// Stats counts rows removed per reason so data loss stays observable.
type Stats struct {
	EmptyRows       int
	DuplicateRows   int
	MissingRequired int
}

// Clean applies the scrubbing steps to a frame already read with the
// standard reader (which trims cells and normalizes headers). Required
// column names are canonical (lower-cased, underscored).
func Clean(f *frame.Frame, required []string) (*frame.Frame, Stats, error) {
	var reqIdx []int
	for _, c := range required {
		ci := f.ColumnIndex(c)
		if ci < 0 {
			return nil, Stats{}, fmt.Errorf("scrub: required column %q not present", c)
		}
		reqIdx = append(reqIdx, ci)
	}

	out := frame.New(f.Columns...)
	out.Rows = make([][]any, 0, len(f.Rows))
	seen := make(map[string]struct{}, len(f.Rows))
	var st Stats

rows:
	for _, r := range f.Rows {
		empty := true
		for _, v := range r {
			if v != nil {
				empty = false
				break
			}
		}
		if empty {
			st.EmptyRows++
			continue
		}

		for _, ci := range reqIdx {
			if r[ci] == nil {
				st.MissingRequired++
				continue rows
			}
		}

		fp := fingerprint(r)
		if _, dup := seen[fp]; dup {
			st.DuplicateRows++
			continue
		}
		seen[fp] = struct{}{}
		out.Rows = append(out.Rows, r)
	}
	return out, st, nil
}

// File reads a raw CSV, cleans it, and writes the cleaned CSV to outPath.
func File(inPath, outPath string, required []string) (Stats, error) {
	raw, err := parsecsv.ReadFile(inPath, parsecsv.DefaultOptions())
	if err != nil {
		return Stats{}, err
	}

	cleaned, st, err := Clean(raw, required)
	if err != nil {
		return Stats{}, err
	}

	if err := writeCSV(outPath, cleaned); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func writeCSV(path string, f *frame.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(f.Columns); err != nil {
		return err
	}
	rec := make([]string, len(f.Columns))
	for _, r := range f.Rows {
		for i, v := range r {
			if v == nil {
				rec[i] = ""
				continue
			}
			rec[i] = fmt.Sprint(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return out.Close()
}

// fingerprint builds a duplicate-detection key from a row. \x1f separates
// cells; nil and "" collapse together, which is the intended behavior since
// the reader already mapped empty cells to nil.
func fingerprint(r []any) string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if v != nil {
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
