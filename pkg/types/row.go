package types

import "time"

// CellMeta is the stored value of one cell. Data is the TypeOptionCellData
// envelope produced when the cell was last written.
type CellMeta struct {
	FieldID string `json:"field_id"`
	Data    string `json:"data"`
}

// Row is one record of the grid. Cells are keyed by field ID; a field with
// no entry has never been written on this row.
type Row struct {
	RowID     string               `json:"row_id"`
	Cells     map[string]*CellMeta `json:"cells"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Cell returns the stored cell for fieldID, or nil if it was never written.
func (r *Row) Cell(fieldID string) *CellMeta {
	if r.Cells == nil {
		return nil
	}
	return r.Cells[fieldID]
}

// SetCell stores data for fieldID and bumps UpdatedAt.
func (r *Row) SetCell(fieldID, data string) {
	if r.Cells == nil {
		r.Cells = make(map[string]*CellMeta)
	}
	r.Cells[fieldID] = &CellMeta{FieldID: fieldID, Data: data}
	r.UpdatedAt = time.Now().UTC()
}
