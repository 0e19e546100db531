package transform

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"salesdw/internal/frame"
)

// ExtractKey parses a prefixed surrogate-key code such as "C7" or "p42" into
// its integer key. The prefix match is case-insensitive and surrounding
// whitespace is ignored; everything after the prefix must be digits.
//
// ExtractKey is a pure function: the same value always yields the same key
// or absence, never a position-dependent result.
func ExtractKey(v any, prefix rune) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, false
	}
	if unicode.ToLower(rune(s[0])) != unicode.ToLower(prefix) {
		return 0, false
	}
	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractKeyColumn replaces a column of prefixed codes with extracted int64
// keys. Rows whose value does not match <prefix><digits> are dropped from
// the result; the count of dropped rows is returned so callers can surface
// it as a data-quality aggregate.
func ExtractKeyColumn(f *frame.Frame, column string, prefix rune) (*frame.Frame, int, error) {
	ci := f.ColumnIndex(column)
	if ci < 0 {
		return nil, 0, fmt.Errorf("extract %q: column not present", column)
	}

	out := frame.New(f.Columns...)
	out.Rows = make([][]any, 0, len(f.Rows))
	dropped := 0
	for _, r := range f.Rows {
		key, ok := ExtractKey(r[ci], prefix)
		if !ok {
			dropped++
			continue
		}
		row := append([]any(nil), r...)
		row[ci] = key
		out.Rows = append(out.Rows, row)
	}
	return out, dropped, nil
}
