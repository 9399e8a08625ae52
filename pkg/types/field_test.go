package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes() {
		t.Run(string(ft), func(t *testing.T) {
			got, err := ParseFieldType(string(ft))
			require.NoError(t, err)
			assert.Equal(t, ft, got)
			assert.True(t, got.IsValid())
		})
	}

	for _, s := range []string{"", "text", "number", "Date", "float"} {
		t.Run("invalid "+s, func(t *testing.T) {
			_, err := ParseFieldType(s)
			assert.ErrorIs(t, err, ErrInvalidFieldType)
		})
	}
}

func TestFieldTypesReturnsCopy(t *testing.T) {
	all := FieldTypes()
	require.Len(t, all, 6)
	all[0] = "mutated"
	assert.Equal(t, FieldTypeRichText, FieldTypes()[0])
}

func TestFieldMetaTypeOption(t *testing.T) {
	var nilField *FieldMeta
	_, ok := nilField.TypeOption(FieldTypeNumber)
	assert.False(t, ok, "nil field has no type options")

	f := &FieldMeta{Name: "price", FieldType: FieldTypeNumber}
	_, ok = f.TypeOption(FieldTypeNumber)
	assert.False(t, ok)

	f.SetTypeOption(FieldTypeNumber, `{"format":"USD"}`)
	got, ok := f.TypeOption(FieldTypeNumber)
	assert.True(t, ok)
	assert.Equal(t, `{"format":"USD"}`, got)

	_, ok = f.TypeOption(FieldTypeCheckbox)
	assert.False(t, ok, "options are kept per field type")
}

func TestCellErrorsWrapInvalidCellData(t *testing.T) {
	for _, err := range []error{
		ErrInvalidNumber, ErrInvalidDate, ErrInvalidCheckbox,
		ErrOptionNotFound, ErrTextTooLong,
	} {
		assert.True(t, errors.Is(err, ErrInvalidCellData), "%v should wrap ErrInvalidCellData", err)
	}
	assert.False(t, errors.Is(ErrDeserialization, ErrInvalidCellData))
}

func TestRowSetCell(t *testing.T) {
	r := &Row{RowID: "row-1"}
	assert.Nil(t, r.Cell("f1"))

	r.SetCell("f1", `{"data":"x","field_type":"RichText"}`)
	c := r.Cell("f1")
	require.NotNil(t, c)
	assert.Equal(t, "f1", c.FieldID)
	assert.Equal(t, `{"data":"x","field_type":"RichText"}`, c.Data)
	assert.False(t, r.UpdatedAt.IsZero())
}
