package transform

import (
	"testing"

	"salesdw/internal/frame"
)

func TestDedupeByKeyKeepsFirst(t *testing.T) {
	f := frame.New("segment_id", "segment_name")
	f.Rows = [][]any{
		{int64(1), "Budget"},
		{int64(1), "Budget-dup"},
		{int64(2), "Premium"},
		{int64(2), "Premium-dup"},
		{int64(1), "Budget-dup-2"},
	}

	out, dropped, err := DedupeByKey(f, "segment_id")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 3 {
		t.Fatalf("dropped=%d want 3", dropped)
	}
	if out.Len() != 2 {
		t.Fatalf("rows=%d want 2", out.Len())
	}
	if out.Rows[0][1] != "Budget" || out.Rows[1][1] != "Premium" {
		t.Fatalf("first occurrence not kept: %v", out.Rows)
	}
}

func TestDedupeByKeyNoDuplicates(t *testing.T) {
	f := frame.New("k")
	f.Rows = [][]any{{int64(1)}, {int64(2)}, {int64(3)}}

	out, dropped, err := DedupeByKey(f, "k")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 0 || out.Len() != 3 {
		t.Fatalf("dropped=%d rows=%d", dropped, out.Len())
	}
}
