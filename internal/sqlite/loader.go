package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
)

// querier is the read surface shared by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column lists.
// Cells load after the fields and rows they belong to.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{fieldsJSONL, "fields", []string{"field_id", "name", "field_type", "type_options", "created_at"}},
	{rowsJSONL, "rows", []string{"row_id", "created_at", "updated_at"}},
	{rowCellsJSONL, "row_cells", []string{"row_id", "field_id", "data"}},
}

// loadAllJSONL reads each JSONL file from DataDir and inserts records into the
// corresponding SQLite tables. Loading is transactional: all succeed or the
// database remains empty. Unknown fields in JSONL records are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	// Drop cells whose row or field did not survive loading.
	if _, err := tx.Exec(`DELETE FROM row_cells
		WHERE row_id NOT IN (SELECT row_id FROM rows)
		   OR field_id NOT IN (SELECT field_id FROM fields)`); err != nil {
		return fmt.Errorf("pruning orphan cells: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only columns
// listed in the mapping are extracted. Records that fail to parse or violate a
// constraint are skipped.
func insertRecords(tx *sql.Tx, table string, columns []string, records [][]byte) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			val, ok := obj[col]
			if !ok {
				continue
			}
			// Nested JSON (type_options) is stored as its text form.
			switch v := val.(type) {
			case map[string]any, []any:
				b, err := json.Marshal(v)
				if err != nil {
					continue
				}
				args[i] = string(b)
			default:
				args[i] = val
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}

	return nil
}
