// Package storage defines the backend-agnostic report sink and its backend
// registry. Backends register themselves from init() (see storage/sqlite,
// storage/postgres, storage/mssql) so the engine never imports a driver.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to create a sink.
type Config struct {
	Kind string
	DSN  string
}

// Column kinds understood by every backend. Backends map them to their own
// SQL types.
const (
	KindText    = "text"
	KindInteger = "integer"
	KindReal    = "real"
)

// ColumnSpec describes one result column for DDL generation.
type ColumnSpec struct {
	Name string
	Kind string
}

// TableSpec describes one result table for DDL generation.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// Sink is a backend-agnostic destination for result tables.
//
// IMPORTANT: ReplaceRows replaces the table's contents rather than
// appending, so publishing the same run twice is idempotent.
type Sink interface {
	// Close releases backend resources. Treat as "call once".
	Close()

	// EnsureTables creates result tables as needed (create-if-not-exists).
	EnsureTables(ctx context.Context, tables []TableSpec) error

	// ReplaceRows deletes the table's current contents and inserts rows.
	// Returns the number of rows inserted.
	ReplaceRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a sink backend under a kind (e.g. "sqlite").
//
// Call from an init() function in a backend package. Registering the same
// kind twice panics so ambiguous backend selection fails fast.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, dup := factories[kind]; dup {
		panic("storage: Register called twice for kind " + kind)
	}
	factories[kind] = f
}

// New constructs a sink for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("storage: unknown sink kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, for error messages and docs.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
