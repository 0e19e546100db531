package frame

import "testing"

func TestColumnIndex(t *testing.T) {
	f := New("a", "b", "c")
	if i := f.ColumnIndex("b"); i != 1 {
		t.Fatalf("index=%d", i)
	}
	if i := f.ColumnIndex("missing"); i != -1 {
		t.Fatalf("index=%d", i)
	}
}

func TestAppend(t *testing.T) {
	f := New("a", "b")
	if err := f.Append([]any{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := f.Append([]any{1}); err == nil {
		t.Fatal("expected error for misaligned row")
	}
	if f.Len() != 1 {
		t.Fatalf("len=%d", f.Len())
	}
}

func TestValueBounds(t *testing.T) {
	f := New("a")
	f.Rows = [][]any{{"x"}}
	if v := f.Value(0, 0); v != "x" {
		t.Fatalf("value=%v", v)
	}
	for _, c := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if v := f.Value(c[0], c[1]); v != nil {
			t.Fatalf("Value(%d,%d)=%v want nil", c[0], c[1], v)
		}
	}
}

func TestNewCopiesColumns(t *testing.T) {
	cols := []string{"a", "b"}
	f := New(cols...)
	cols[0] = "mutated"
	if f.Columns[0] != "a" {
		t.Fatal("frame shares caller's column slice")
	}
}
