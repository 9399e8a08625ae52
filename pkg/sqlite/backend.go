// Package sqlite provides the public API for the SQLite grid backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/grid/internal/sqlite"
	"github.com/mesh-intelligence/grid/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".grid-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Grid {
	return sqlite.NewBackend()
}
