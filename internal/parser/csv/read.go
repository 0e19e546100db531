// Package csv reads delimited source extracts into frames.
//
// Header handling mirrors what the rest of the pipeline expects: headers are
// trimmed, lower-cased, and spaces are replaced with underscores, so the
// transform stage can match columns without caring how the extract was
// exported. A UTF-8 BOM on the first header cell is stripped.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"salesdw/internal/frame"
)

// Options controls how a source file is read.
type Options struct {
	Comma      rune
	HasHeader  bool
	TrimSpace  bool
	LazyQuotes bool

	// Encoding selects the source charset. Empty or "utf-8" reads bytes as-is.
	// "latin-1" (ISO 8859-1) and "windows-1252" are decoded before parsing;
	// older BI exports in this dataset family ship as Windows-1252.
	Encoding string
}

// DefaultOptions returns the options used for the cleaned pipeline inputs:
// comma-delimited, header row present, cells trimmed.
func DefaultOptions() Options {
	return Options{Comma: ',', HasHeader: true, TrimSpace: true}
}

// ReadFile reads a whole CSV file into a frame.
func ReadFile(path string, opt Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fr, err := ReadFrame(f, opt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return fr, nil
}

// ReadFrame parses CSV from r into a frame.
//
// Cell values are trimmed (when TrimSpace) and empty cells become nil so the
// transform stage has a single representation for "missing". Records shorter
// than the header are padded with nil; longer records have their tail dropped.
func ReadFrame(r io.Reader, opt Options) (*frame.Frame, error) {
	if opt.Comma == 0 {
		opt.Comma = ','
	}

	dec, err := decodingReader(r, opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dec)
	cr.Comma = opt.Comma
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	var columns []string
	if opt.HasHeader {
		hdr, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		columns = make([]string, len(hdr))
		for i, h := range hdr {
			if i == 0 {
				h = strings.TrimPrefix(h, "\ufeff")
			}
			columns[i] = NormalizeHeader(h)
		}
	}

	out := frame.New(columns...)

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv record %d: %w", line, err)
		}

		if !opt.HasHeader && out.Columns == nil {
			// Headerless input: synthesize positional column names once.
			out.Columns = make([]string, len(rec))
			for i := range rec {
				out.Columns[i] = fmt.Sprintf("column_%d", i+1)
			}
		}

		row := make([]any, len(out.Columns))
		for i := range out.Columns {
			if i >= len(rec) {
				continue
			}
			v := rec[i]
			if opt.TrimSpace && hasEdgeSpace(v) {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				continue
			}
			row[i] = v
		}
		out.Rows = append(out.Rows, row)
	}
}

// NormalizeHeader converts a raw header cell to the canonical form used
// throughout the pipeline: trimmed, lower-cased, spaces replaced with
// underscores.
func NormalizeHeader(h string) string {
	if hasEdgeSpace(h) {
		h = strings.TrimSpace(h)
	}
	return strings.ReplaceAll(strings.ToLower(h), " ", "_")
}

func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// hasEdgeSpace reports whether s starts or ends with whitespace, letting the
// hot path skip TrimSpace allocations for already-clean cells.
func hasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsSpace(rune(s[0])) || unicode.IsSpace(rune(s[len(s)-1]))
}
