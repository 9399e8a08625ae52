package types

import (
	"errors"
	"fmt"
)

// Filter selects entities in Table.Fetch. Keys are table specific; unknown
// keys are ignored.
type Filter map[string]any

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Field and cell errors. The narrower cell errors wrap ErrInvalidCellData so
// callers can test for any validation failure with errors.Is.
var (
	ErrInvalidFieldType  = errors.New("invalid field type")
	ErrUnknownFieldType  = errors.New("no handler for field type")
	ErrInvalidTypeOption = errors.New("invalid type option")
	ErrFieldNotFound     = errors.New("field not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrDeserialization   = errors.New("malformed cell data envelope")

	ErrInvalidCellData = errors.New("invalid cell data")
	ErrInvalidNumber   = fmt.Errorf("%w: not a number", ErrInvalidCellData)
	ErrInvalidDate     = fmt.Errorf("%w: not a date", ErrInvalidCellData)
	ErrInvalidCheckbox = fmt.Errorf("%w: not a checkbox value", ErrInvalidCellData)
	ErrOptionNotFound  = fmt.Errorf("%w: select option not found", ErrInvalidCellData)
	ErrTextTooLong     = fmt.Errorf("%w: text too long", ErrInvalidCellData)
)
