package scrub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salesdw/internal/frame"
	parsecsv "salesdw/internal/parser/csv"
)

func TestCleanDropsEmptyDuplicateAndMissing(t *testing.T) {
	f := frame.New("transactionid", "revenue")
	f.Rows = [][]any{
		{"1", "10.50"},
		{nil, nil},       // empty
		{"1", "10.50"},   // exact duplicate
		{nil, "5.00"},    // missing required
		{"2", nil},       // missing value in non-required column is fine
	}

	out, st, err := Clean(f, []string{"transactionid"})
	if err != nil {
		t.Fatal(err)
	}
	if st.EmptyRows != 1 || st.DuplicateRows != 1 || st.MissingRequired != 1 {
		t.Fatalf("stats=%+v", st)
	}
	if out.Len() != 2 {
		t.Fatalf("rows=%d want 2", out.Len())
	}
	if out.Rows[0][0] != "1" || out.Rows[1][0] != "2" {
		t.Fatalf("rows=%v", out.Rows)
	}
}

func TestCleanRequiredColumnAbsent(t *testing.T) {
	f := frame.New("a")
	if _, _, err := Clean(f, []string{"transactionid"}); err == nil {
		t.Fatal("expected error for absent required column")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.csv")
	out := filepath.Join(dir, "clean.csv")

	raw := strings.Join([]string{
		"TransactionID, Revenue ",
		"1, 10.50 ",
		",",
		"1,10.50",
		",7.00",
		"2,8.25",
		"",
	}, "\n")
	if err := os.WriteFile(in, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := File(in, out, []string{"transactionid"})
	if err != nil {
		t.Fatal(err)
	}
	if st.EmptyRows != 1 || st.DuplicateRows != 1 || st.MissingRequired != 1 {
		t.Fatalf("stats=%+v", st)
	}

	cleaned, err := parsecsv.ReadFile(out, parsecsv.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if cleaned.Columns[0] != "transactionid" || cleaned.Columns[1] != "revenue" {
		t.Fatalf("columns=%v", cleaned.Columns)
	}
	if cleaned.Len() != 2 {
		t.Fatalf("rows=%d want 2", cleaned.Len())
	}
	if cleaned.Rows[0][1] != "10.50" || cleaned.Rows[1][1] != "8.25" {
		t.Fatalf("rows=%v", cleaned.Rows)
	}
}
