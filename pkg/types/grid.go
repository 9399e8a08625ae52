package types

import "errors"

// Grid defines the interface for backend-agnostic storage access.
// Callers attach to a backend, access tables by name, and detach when done.
type Grid interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Grid to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrGridDetached.
	Detach() error
}

// Grid lifecycle errors.
var (
	ErrGridDetached    = errors.New("grid is detached")
	ErrAlreadyAttached = errors.New("grid is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
