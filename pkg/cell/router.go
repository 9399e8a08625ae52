package cell

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// ApplyCellDataChangeset validates changeset against field and returns the
// new stored payload. The handler is chosen by field.FieldType and built
// from the field's options, or the defaults when it has none. Handler errors
// are returned unchanged.
func ApplyCellDataChangeset(changeset Changeset, cell *types.CellMeta, field *types.FieldMeta) (string, error) {
	if field == nil {
		return "", types.ErrInvalidData
	}
	switch field.FieldType {
	case types.FieldTypeRichText:
		return NewRichTextTypeOption(field).ApplyChangeset(changeset, cell)
	case types.FieldTypeNumber:
		return NewNumberTypeOption(field).ApplyChangeset(changeset, cell)
	case types.FieldTypeDateTime:
		return NewDateTypeOption(field).ApplyChangeset(changeset, cell)
	case types.FieldTypeSingleSelect:
		return NewSingleSelectTypeOption(field).ApplyChangeset(changeset, cell)
	case types.FieldTypeMultiSelect:
		return NewMultiSelectTypeOption(field).ApplyChangeset(changeset, cell)
	case types.FieldTypeCheckbox:
		return NewCheckboxTypeOption(field).ApplyChangeset(changeset, cell)
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnknownFieldType, field.FieldType)
	}
}

// DecodeCellData decodes data as fieldType using the options field holds for
// that type. It reports false when field has no options for fieldType; that
// is an empty cell, not an error. Each decoded cell is logged at debug level
// with the field's declared type. log may be nil.
func DecodeCellData(log *zap.Logger, data string, field *types.FieldMeta, fieldType types.FieldType) (DecodedCellData, bool) {
	var (
		op CellDataOperation
		ok bool
	)
	switch fieldType {
	case types.FieldTypeRichText:
		op, ok = operationEntry[RichTextTypeOption](field, fieldType)
	case types.FieldTypeNumber:
		op, ok = operationEntry[NumberTypeOption](field, fieldType)
	case types.FieldTypeDateTime:
		op, ok = operationEntry[DateTypeOption](field, fieldType)
	case types.FieldTypeSingleSelect:
		op, ok = operationEntry[SingleSelectTypeOption](field, fieldType)
	case types.FieldTypeMultiSelect:
		op, ok = operationEntry[MultiSelectTypeOption](field, fieldType)
	case types.FieldTypeCheckbox:
		op, ok = operationEntry[CheckboxTypeOption](field, fieldType)
	}
	if !ok {
		return DecodedCellData{}, false
	}

	decoded := op.DecodeCellData(data, field)
	if log != nil {
		log.Debug("cell decoded",
			zap.Stringer("field_type", field.FieldType),
			zap.String("content", decoded.Content))
	}
	return decoded, true
}
