package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"salesdw/internal/storage"
)

// Repo implements storage.Repository for SQL Server.
//
// SQL Server specifics handled here:
//   - TEXT is deprecated; the portable TEXT type maps to NVARCHAR(MAX).
//   - REAL maps to FLOAT to keep double precision.
//   - CREATE/DROP are wrapped in OBJECT_ID guards since there is no
//     IF [NOT] EXISTS clause on older supported versions.
//   - Inserts are chunked under the 2100 bind-parameter limit.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

func (r *Repo) CreateTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := buildCreateTableSQL(t)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("mssql: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Repo) DropTables(ctx context.Context, names []string) error {
	for _, n := range names {
		stmt := fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;",
			strings.ReplaceAll(n, "'", "''"), mssqlIdent(n),
		)
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: drop table %s: %w", n, err)
		}
	}
	return nil
}

func (r *Repo) DeleteAllRows(ctx context.Context, names []string) error {
	for _, n := range names {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+mssqlIdent(n)); err != nil {
			return fmt.Errorf("mssql: delete rows from %s: %w", n, err)
		}
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// 2100-parameter limit; seven columns per row leaves ample headroom.
	const chunkSize = 250

	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, mssqlIdent(c))
	}

	var total int64
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var b strings.Builder
		b.WriteString("INSERT INTO ")
		b.WriteString(mssqlIdent(table))
		b.WriteString(" (")
		b.WriteString(strings.Join(colList, ", "))
		b.WriteString(") VALUES ")

		args := make([]any, 0, len(chunk)*len(columns))
		p := 1
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := range columns {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "@p%d", p)
				p++
			}
			b.WriteString(")")
			args = append(args, row...)
		}

		res, err := tx.ExecContext(ctx, b.String(), args...)
		if err != nil {
			return 0, fmt.Errorf("mssql: insert into %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repo) SelectIntKeys(ctx context.Context, table, column string) (map[int64]struct{}, error) {
	q := fmt.Sprintf("SELECT %s FROM %s", mssqlIdent(column), mssqlIdent(table))
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]struct{}{}
	for rows.Next() {
		var k sql.NullInt64
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		if !k.Valid {
			return nil, fmt.Errorf("mssql: %s.%s contains NULL key", table, column)
		}
		out[k.Int64] = struct{}{}
	}
	return out, rows.Err()
}

func (r *Repo) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+mssqlIdent(table)).Scan(&n)
	return n, err
}

// mssqlIdent returns a bracket-quoted identifier, escaping ']' as ']]'.
func mssqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func mssqlType(portable string) string {
	switch strings.ToUpper(strings.TrimSpace(portable)) {
	case "TEXT":
		return "NVARCHAR(MAX)"
	case "REAL":
		return "FLOAT"
	case "INTEGER":
		return "INT"
	default:
		return portable
	}
}

func buildCreateTableSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("table name is empty")
	}

	var parts []string
	if t.PrimaryKey != nil {
		parts = append(parts, fmt.Sprintf("%s %s PRIMARY KEY", mssqlIdent(t.PrimaryKey.Name), mssqlType(t.PrimaryKey.Type)))
	}

	for _, c := range t.Columns {
		col := fmt.Sprintf("%s %s", mssqlIdent(c.Name), mssqlType(c.Type))
		nullable := true
		if c.Nullable != nil {
			nullable = *c.Nullable
		}
		if !nullable {
			col += " NOT NULL"
		}
		if c.References != "" {
			col += " REFERENCES " + c.References
		}
		parts = append(parts, col)
	}

	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL BEGIN CREATE TABLE %s (%s); END;",
		strings.ReplaceAll(t.Name, "'", "''"),
		mssqlIdent(t.Name),
		strings.Join(parts, ", "),
	), nil
}
