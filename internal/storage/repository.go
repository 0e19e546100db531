package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to open a warehouse store.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// Repository is the backend-agnostic surface the warehouse loader needs.
// Each backend implements these semantics in its own idiomatic way; nothing
// engine-specific leaks past this interface.
//
// The load pipeline is single-writer: implementations do not need to guard
// against concurrent mutation of the same tables.
type Repository interface {
	// Close releases backend resources. Treat as "call once" at shutdown.
	Close()

	// CreateTables creates the given tables if they do not already exist.
	// Safe to call on a store that has never been initialized.
	CreateTables(ctx context.Context, tables []TableSpec) error

	// DropTables drops the named tables if present. Callers pass names in
	// FK-safe order (dependents before the tables they reference).
	DropTables(ctx context.Context, names []string) error

	// DeleteAllRows deletes every row from the named tables, leaving the
	// schema intact. Callers pass names in FK-safe order.
	DeleteAllRows(ctx context.Context, names []string) error

	// InsertRows bulk-inserts rows into a table inside a single transaction.
	// A constraint violation fails the whole call; no rows remain inserted.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// SelectIntKeys returns the set of integer key values currently stored
	// in a column. Used to materialize dimension key sets for the
	// referential filter.
	SelectIntKeys(ctx context.Context, table, column string) (map[int64]struct{}, error)

	// CountRows returns the current row count of a table.
	CountRows(ctx context.Context, table string) (int64, error)
}

// ---- backend factories ----

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// Call Register from an init() function in a backend package. Registering
// the same kind twice panics; failing fast beats ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing store kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported store kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
