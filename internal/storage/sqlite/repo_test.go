package sqlite

import (
	"context"
	"strings"
	"testing"

	"salesdw/internal/storage"
)

func notNull() *bool {
	b := false
	return &b
}

func testTables() []storage.TableSpec {
	return []storage.TableSpec{
		{
			Name:       "customer",
			PrimaryKey: &storage.PrimaryKeySpec{Name: "segment_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "segment_name", Type: "TEXT", Nullable: notNull()},
			},
		},
		{
			Name:       "sales",
			PrimaryKey: &storage.PrimaryKeySpec{Name: "sale_id", Type: "INTEGER"},
			Columns: []storage.ColumnSpec{
				{Name: "segment_id", Type: "INTEGER", References: "customer (segment_id)", Nullable: notNull()},
				{Name: "sale_amount", Type: "REAL", Nullable: notNull()},
			},
		},
	}
}

func openTestRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func TestCreateInsertSelectCount(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}
	// Idempotent: creating again must not fail.
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatalf("second CreateTables: %v", err)
	}

	n, err := repo.InsertRows(ctx, "customer", []string{"segment_id", "segment_name"}, [][]any{
		{int64(1), "Budget"},
		{int64(2), "Premium"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("inserted=%d want 2", n)
	}

	keys, err := repo.SelectIntKeys(ctx, "customer", "segment_id")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys=%v", keys)
	}
	if _, ok := keys[1]; !ok {
		t.Fatal("key 1 missing")
	}

	cnt, err := repo.CountRows(ctx, "customer")
	if err != nil {
		t.Fatal(err)
	}
	if cnt != 2 {
		t.Fatalf("count=%d", cnt)
	}
}

func TestInsertEmptyRowsNoop(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}
	n, err := repo.InsertRows(ctx, "customer", []string{"segment_id", "segment_name"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("inserted=%d want 0", n)
	}
}

func TestForeignKeyEnforced(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}

	_, err := repo.InsertRows(ctx, "sales", []string{"sale_id", "segment_id", "sale_amount"}, [][]any{
		{int64(1), int64(99), 10.5},
	})
	if err == nil {
		t.Fatal("expected FK violation for missing parent key")
	}

	// The failed call must leave nothing behind.
	cnt, err := repo.CountRows(ctx, "sales")
	if err != nil {
		t.Fatal(err)
	}
	if cnt != 0 {
		t.Fatalf("count=%d after rollback", cnt)
	}
}

func TestInsertRollsBackWholeCall(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}

	// Second row violates the primary key; the first must roll back too.
	_, err := repo.InsertRows(ctx, "customer", []string{"segment_id", "segment_name"}, [][]any{
		{int64(1), "Budget"},
		{int64(1), "Budget-dup"},
	})
	if err == nil {
		t.Fatal("expected PK violation")
	}
	cnt, err := repo.CountRows(ctx, "customer")
	if err != nil {
		t.Fatal(err)
	}
	if cnt != 0 {
		t.Fatalf("count=%d after rollback", cnt)
	}
}

func TestInsertChunksLargeBatches(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}

	rows := make([][]any, 0, 1200)
	for i := 1; i <= 1200; i++ {
		rows = append(rows, []any{int64(i), "seg"})
	}
	n, err := repo.InsertRows(ctx, "customer", []string{"segment_id", "segment_name"}, rows)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1200 {
		t.Fatalf("inserted=%d want 1200", n)
	}
}

func TestDeleteAllRowsAndDrop(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	if err := repo.CreateTables(ctx, testTables()); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.InsertRows(ctx, "customer", []string{"segment_id", "segment_name"}, [][]any{{int64(1), "Budget"}}); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteAllRows(ctx, []string{"sales", "customer"}); err != nil {
		t.Fatal(err)
	}
	cnt, err := repo.CountRows(ctx, "customer")
	if err != nil {
		t.Fatal(err)
	}
	if cnt != 0 {
		t.Fatalf("count=%d after delete", cnt)
	}

	if err := repo.DropTables(ctx, []string{"sales", "customer"}); err != nil {
		t.Fatal(err)
	}
	// Dropping again is a no-op thanks to IF EXISTS.
	if err := repo.DropTables(ctx, []string{"sales", "customer"}); err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if _, err := repo.CountRows(ctx, "customer"); err == nil {
		t.Fatal("expected error counting dropped table")
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	ddl, err := buildCreateTableSQL(testTables()[1])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "sales"`,
		`"sale_id" INTEGER PRIMARY KEY`,
		`"segment_id" INTEGER NOT NULL REFERENCES customer (segment_id)`,
		`"sale_amount" REAL NOT NULL`,
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("ddl missing %q:\n%s", want, ddl)
		}
	}
}

func TestBuildCreateTableSQLEmptyName(t *testing.T) {
	if _, err := buildCreateTableSQL(storage.TableSpec{Name: "  "}); err == nil {
		t.Fatal("expected error for empty table name")
	}
}
