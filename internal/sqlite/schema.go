package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables.
const (
	createFields = `CREATE TABLE fields (
    field_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    field_type TEXT NOT NULL,
    type_options TEXT,
    created_at TEXT NOT NULL
);`

	createRows = `CREATE TABLE rows (
    row_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createRowCells = `CREATE TABLE row_cells (
    row_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (row_id, field_id)
);`
)

// Index DDL for common queries.
const (
	idxFieldsType    = `CREATE INDEX idx_fields_type ON fields(field_type);`
	idxRowCellsField = `CREATE INDEX idx_row_cells_field ON row_cells(field_id);`
	idxRowsCreatedAt = `CREATE INDEX idx_rows_created_at ON rows(created_at);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createFields,
	createRows,
	createRowCells,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxFieldsType,
	idxRowCellsField,
	idxRowsCreatedAt,
}

// createSchema executes the table and index DDL against db.
func createSchema(db *sql.DB) error {
	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
