package transform

import (
	"fmt"

	"salesdw/internal/frame"
)

// DedupeByKey retains only the first row for each distinct value of the key
// column, in original row order. Later duplicates are discarded wholesale;
// nothing is merged. Returns the number of rows dropped.
func DedupeByKey(f *frame.Frame, column string) (*frame.Frame, int, error) {
	ci := f.ColumnIndex(column)
	if ci < 0 {
		return nil, 0, fmt.Errorf("dedupe %q: column not present", column)
	}

	out := frame.New(f.Columns...)
	out.Rows = make([][]any, 0, len(f.Rows))
	seen := make(map[any]struct{}, len(f.Rows))
	dropped := 0
	for _, r := range f.Rows {
		k := r[ci]
		if _, dup := seen[k]; dup {
			dropped++
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, r)
	}
	return out, dropped, nil
}
