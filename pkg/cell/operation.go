package cell

import "github.com/mesh-intelligence/grid/pkg/types"

// CellDataOperation is implemented by the handler of every field type.
type CellDataOperation interface {
	// DecodeCellData turns a stored payload into its raw and display forms.
	// It must not fail: unreadable payloads degrade to a best-effort value.
	DecodeCellData(data string, field *types.FieldMeta) DecodedCellData

	// ApplyChangeset validates changeset and returns the new stored payload.
	// cell is the current value, or nil for a cell never written.
	ApplyChangeset(changeset Changeset, cell *types.CellMeta) (string, error)
}

var (
	_ CellDataOperation = (*RichTextTypeOption)(nil)
	_ CellDataOperation = (*NumberTypeOption)(nil)
	_ CellDataOperation = (*DateTypeOption)(nil)
	_ CellDataOperation = (*SingleSelectTypeOption)(nil)
	_ CellDataOperation = (*MultiSelectTypeOption)(nil)
	_ CellDataOperation = (*CheckboxTypeOption)(nil)
)
