package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/grid/pkg/types"
)

var _ types.Table = (*rowsTable)(nil)

// rowsTable implements the Table interface for *types.Row. A row owns its
// cells: Set replaces the stored cells with row.Cells and Delete removes them.
type rowsTable struct {
	backend *Backend
}

// Get retrieves a row by ID together with its cells.
func (rt *rowsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, _, err := rt.backend.conn()
	if err != nil {
		return nil, err
	}

	row, err := hydrateRow(db.QueryRow(
		"SELECT row_id, created_at, updated_at FROM rows WHERE row_id = ?", id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting row %s: %w", id, err)
	}
	if err := hydrateCells(db, row); err != nil {
		return nil, fmt.Errorf("hydrating cells for row %s: %w", id, err)
	}
	return row, nil
}

// Set persists a row and its cells. If id is empty, generates a UUID v7 and
// creates the row. Every cell must reference an existing field.
func (rt *rowsTable) Set(id string, data any) (string, error) {
	row, ok := data.(*types.Row)
	if !ok || row == nil {
		return "", types.ErrInvalidData
	}

	rt.backend.writeMu.Lock()
	defer rt.backend.writeMu.Unlock()

	db, dataDir, err := rt.backend.conn()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Truncate(time.Second)
	if id == "" {
		if id, err = generateUUID(); err != nil {
			return "", err
		}
		row.CreatedAt = now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.Before(row.CreatedAt) {
		row.UpdatedAt = row.CreatedAt
	}
	row.RowID = id
	if row.Cells == nil {
		row.Cells = make(map[string]*types.CellMeta)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for fieldID, cell := range row.Cells {
		if cell == nil {
			return "", fmt.Errorf("%w: nil cell for field %s", types.ErrInvalidData, fieldID)
		}
		var found bool
		err := tx.QueryRow("SELECT 1 FROM fields WHERE field_id = ?", fieldID).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", types.ErrFieldNotFound, fieldID)
		}
		if err != nil {
			return "", fmt.Errorf("checking field %s: %w", fieldID, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO rows (row_id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(row_id) DO UPDATE SET updated_at = excluded.updated_at`,
		id, row.CreatedAt.Format(time.RFC3339), row.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting row: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM row_cells WHERE row_id = ?", id); err != nil {
		return "", fmt.Errorf("clearing row cells: %w", err)
	}
	for fieldID, cell := range row.Cells {
		cell.FieldID = fieldID
		if _, err := tx.Exec(
			"INSERT INTO row_cells (row_id, field_id, data) VALUES (?, ?, ?)",
			id, fieldID, cell.Data,
		); err != nil {
			return "", fmt.Errorf("persisting cell %s: %w", fieldID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing row: %w", err)
	}

	if err := persistTableJSONL(db, dataDir, "rows", rowsJSONL, "created_at, row_id"); err != nil {
		return "", fmt.Errorf("persisting %s: %w", rowsJSONL, err)
	}
	if err := persistTableJSONL(db, dataDir, "row_cells", rowCellsJSONL, "row_id, field_id"); err != nil {
		return "", fmt.Errorf("persisting %s: %w", rowCellsJSONL, err)
	}
	return id, nil
}

// Delete removes a row and its cells.
func (rt *rowsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	rt.backend.writeMu.Lock()
	defer rt.backend.writeMu.Unlock()

	db, dataDir, err := rt.backend.conn()
	if err != nil {
		return err
	}

	var exists bool
	err = db.QueryRow("SELECT 1 FROM rows WHERE row_id = ?", id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking row existence: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM row_cells WHERE row_id = ?", id); err != nil {
		return fmt.Errorf("deleting row cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM rows WHERE row_id = ?", id); err != nil {
		return fmt.Errorf("deleting row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing row deletion: %w", err)
	}

	if err := persistTableJSONL(db, dataDir, "rows", rowsJSONL, "created_at, row_id"); err != nil {
		return fmt.Errorf("persisting %s: %w", rowsJSONL, err)
	}
	if err := persistTableJSONL(db, dataDir, "row_cells", rowCellsJSONL, "row_id, field_id"); err != nil {
		return fmt.Errorf("persisting %s: %w", rowCellsJSONL, err)
	}
	return nil
}

// Fetch lists rows in creation order. Supported keys: limit, offset.
func (rt *rowsTable) Fetch(filter types.Filter) ([]any, error) {
	db, _, err := rt.backend.conn()
	if err != nil {
		return nil, err
	}

	page, err := pageClause(filter)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT row_id, created_at, updated_at FROM rows ORDER BY created_at ASC, row_id ASC" + page)
	if err != nil {
		return nil, fmt.Errorf("fetching rows: %w", err)
	}

	var fetched []*types.Row
	for rows.Next() {
		row, err := hydrateRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("hydrating row: %w", err)
		}
		fetched = append(fetched, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	// The single connection must be released before cells are queried.
	results := make([]any, 0, len(fetched))
	for _, row := range fetched {
		if err := hydrateCells(db, row); err != nil {
			return nil, fmt.Errorf("hydrating cells for row %s: %w", row.RowID, err)
		}
		results = append(results, row)
	}
	return results, nil
}

// hydrateRow converts a rows row into a *types.Row without cells.
func hydrateRow(row rowScanner) (*types.Row, error) {
	var (
		r                    types.Row
		createdAt, updatedAt string
	)
	if err := row.Scan(&r.RowID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &r, nil
}

// hydrateCells loads row_cells into the row's Cells map.
func hydrateCells(db querier, row *types.Row) error {
	rows, err := db.Query("SELECT field_id, data FROM row_cells WHERE row_id = ?", row.RowID)
	if err != nil {
		return fmt.Errorf("querying row_cells: %w", err)
	}
	defer rows.Close()

	cells := make(map[string]*types.CellMeta)
	for rows.Next() {
		var c types.CellMeta
		if err := rows.Scan(&c.FieldID, &c.Data); err != nil {
			return fmt.Errorf("scanning row_cell: %w", err)
		}
		cells[c.FieldID] = &c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating row_cells: %w", err)
	}
	row.Cells = cells
	return nil
}
