package transform

import (
	"fmt"
	"strconv"
	"strings"

	"salesdw/internal/frame"
)

// CoerceFloat parses the named columns as float64 in place. Values that do
// not parse become nil; whether that is fatal for the row is decided later
// by DropMissing, matching how measures are nullable but sale_amount is not.
func CoerceFloat(f *frame.Frame, columns ...string) error {
	for _, c := range columns {
		ci := f.ColumnIndex(c)
		if ci < 0 {
			return fmt.Errorf("coerce %q: column not present", c)
		}
		for _, r := range f.Rows {
			switch v := r[ci].(type) {
			case nil:
				// already missing
			case float64:
				// already typed
			case string:
				n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					r[ci] = nil
					continue
				}
				r[ci] = n
			default:
				r[ci] = nil
			}
		}
	}
	return nil
}

// DropMissing removes rows that have a nil value in any of the named
// columns and returns the number of rows dropped.
func DropMissing(f *frame.Frame, columns ...string) (*frame.Frame, int, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		ci := f.ColumnIndex(c)
		if ci < 0 {
			return nil, 0, fmt.Errorf("drop missing %q: column not present", c)
		}
		idx[i] = ci
	}

	out := frame.New(f.Columns...)
	out.Rows = make([][]any, 0, len(f.Rows))
	dropped := 0
rows:
	for _, r := range f.Rows {
		for _, ci := range idx {
			if r[ci] == nil {
				dropped++
				continue rows
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out, dropped, nil
}

// AssignSequential overwrites the named column with a dense 1..N int64
// sequence in current row order. Used to reassign surrogate fact keys so
// source transaction identifiers are never trusted.
func AssignSequential(f *frame.Frame, column string) error {
	ci := f.ColumnIndex(column)
	if ci < 0 {
		return fmt.Errorf("assign sequential %q: column not present", column)
	}
	for i, r := range f.Rows {
		r[ci] = int64(i + 1)
	}
	return nil
}
