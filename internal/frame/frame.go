// Package frame provides the small in-memory table the batch pipeline
// passes between stages: an ordered list of column names plus rows of
// values aligned to those columns.
//
// Cell values are nil (missing), string (as parsed from the source file),
// or a typed value produced by a transform stage (int64 keys, float64
// measures). The frame itself never interprets values.
package frame

import "fmt"

type Frame struct {
	Columns []string
	Rows    [][]any
}

// New returns an empty frame with the given column order.
func New(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// ColumnIndex returns the position of a column, or -1 when absent.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The row must already be aligned to f.Columns.
func (f *Frame) Append(row []any) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("frame: row has %d values, frame has %d columns", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Value returns the cell at (row, column index). It exists so callers that
// already resolved a column index can read without bounds bookkeeping.
func (f *Frame) Value(row, col int) any {
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Columns) {
		return nil
	}
	return f.Rows[row][col]
}
