// Package sqlite provides the public API for the SQLite record store.
// It exposes the factory and options while keeping the implementation
// internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/haldai/internal/sqlite"
	"github.com/mesh-intelligence/haldai/pkg/types"
)

// Option configures a store created by NewBackend.
type Option = sqlite.Option

// WithSession sets the session whose user email is stamped on saved tasks
// and notebooks.
func WithSession(s types.Session) Option {
	return sqlite.WithSession(s)
}

// WithLogger sets the logger for lifecycle diagnostics.
func WithLogger(l *zap.Logger) Option {
	return sqlite.WithLogger(l)
}

// NewBackend creates a new SQLite store. The store is not initialized; call
// Init with a Config to open it.
//
// Example:
//
//	store := sqlite.NewBackend(sqlite.WithSession(types.SessionFor("me@example.com")))
//	err := store.Init(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".haldai-db",
//	})
//	defer store.Close()
func NewBackend(opts ...Option) types.Store {
	return sqlite.NewBackend(opts...)
}
