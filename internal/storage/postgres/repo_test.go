package postgres

import (
	"strings"
	"testing"

	"salesdw/internal/storage"
)

func TestPgIdent(t *testing.T) {
	if got := pgIdent("sales"); got != `"sales"` {
		t.Fatalf("got %q", got)
	}
	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("got %q", got)
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	nn := false
	ddl, err := buildCreateTableSQL(storage.TableSpec{
		Name:       "sales",
		PrimaryKey: &storage.PrimaryKeySpec{Name: "sale_id", Type: "INTEGER"},
		Columns: []storage.ColumnSpec{
			{Name: "segment_id", Type: "INTEGER", References: "customer (segment_id)", Nullable: &nn},
			{Name: "units_sold", Type: "REAL"},
			{Name: "sale_date", Type: "TEXT"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "sales"`,
		`"sale_id" INTEGER PRIMARY KEY`,
		`"segment_id" INTEGER NOT NULL REFERENCES customer (segment_id)`,
		`"units_sold" REAL`,
		`"sale_date" TEXT`,
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("ddl missing %q:\n%s", want, ddl)
		}
	}
	// Nullable columns must not carry NOT NULL.
	if strings.Contains(ddl, `"units_sold" REAL NOT NULL`) {
		t.Errorf("nullable column emitted NOT NULL:\n%s", ddl)
	}
}

func TestBuildCreateTableSQLEmptyName(t *testing.T) {
	if _, err := buildCreateTableSQL(storage.TableSpec{}); err == nil {
		t.Fatal("expected error for empty table name")
	}
}
