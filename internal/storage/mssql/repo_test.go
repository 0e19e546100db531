package mssql

import (
	"strings"
	"testing"

	"salesdw/internal/storage"
)

func TestMssqlIdent(t *testing.T) {
	if got := mssqlIdent("sales"); got != "[sales]" {
		t.Fatalf("got %q", got)
	}
	if got := mssqlIdent("we]ird"); got != "[we]]ird]" {
		t.Fatalf("got %q", got)
	}
}

func TestMssqlType(t *testing.T) {
	cases := map[string]string{
		"TEXT":       "NVARCHAR(MAX)",
		"text":       "NVARCHAR(MAX)",
		"REAL":       "FLOAT",
		"INTEGER":    "INT",
		"DATETIME2":  "DATETIME2",
		" integer ":  "INT",
	}
	for in, want := range cases {
		if got := mssqlType(in); got != want {
			t.Errorf("mssqlType(%q)=%q want %q", in, got, want)
		}
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	nn := false
	ddl, err := buildCreateTableSQL(storage.TableSpec{
		Name:       "sales",
		PrimaryKey: &storage.PrimaryKeySpec{Name: "sale_id", Type: "INTEGER"},
		Columns: []storage.ColumnSpec{
			{Name: "segment_id", Type: "INTEGER", References: "customer (segment_id)", Nullable: &nn},
			{Name: "sale_date", Type: "TEXT"},
			{Name: "sale_amount", Type: "REAL", Nullable: &nn},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"IF OBJECT_ID(N'sales', N'U') IS NULL BEGIN CREATE TABLE [sales]",
		"[sale_id] INT PRIMARY KEY",
		"[segment_id] INT NOT NULL REFERENCES customer (segment_id)",
		"[sale_date] NVARCHAR(MAX)",
		"[sale_amount] FLOAT NOT NULL",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("ddl missing %q:\n%s", want, ddl)
		}
	}
}

func TestBuildCreateTableSQLEmptyName(t *testing.T) {
	if _, err := buildCreateTableSQL(storage.TableSpec{}); err == nil {
		t.Fatal("expected error for empty table name")
	}
}
