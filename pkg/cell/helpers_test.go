package cell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// newField returns a field of type ft carrying option as its configuration.
func newField(t *testing.T, ft types.FieldType, option CellDataOperation) *types.FieldMeta {
	t.Helper()
	raw, err := MarshalTypeOption(option)
	require.NoError(t, err)
	f := &types.FieldMeta{FieldID: "field-1", Name: "col", FieldType: ft}
	f.SetTypeOption(ft, raw)
	return f
}

// storedCell wraps data the way the editor persists it.
func storedCell(fieldID, data string, ft types.FieldType) *types.CellMeta {
	return &types.CellMeta{FieldID: fieldID, Data: NewTypeOptionCellData(data, ft).JSON()}
}
