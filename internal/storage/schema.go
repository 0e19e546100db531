// The TableSpec types live here so the warehouse and backend packages can
// both import them without circular deps.
package storage

type TableSpec struct {
	Name       string
	PrimaryKey *PrimaryKeySpec
	Columns    []ColumnSpec
}

type PrimaryKeySpec struct {
	Name string
	Type string // portable type name, see ColumnSpec.Type
}

type ColumnSpec struct {
	Name string

	// Type is a portable type name ("INTEGER", "REAL", "TEXT"); backends
	// translate it to their native type where the portable name is not
	// accepted verbatim.
	Type string

	// References names the referenced table and column, "table (column)",
	// for foreign-key columns.
	References string

	Nullable *bool
}
