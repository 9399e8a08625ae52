package cell

import (
	"fmt"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// typeOptionEntry decodes the configuration stored on field for ft. It
// reports false when the field has none or it is not valid JSON for T.
func typeOptionEntry[T any](field *types.FieldMeta, ft types.FieldType) (*T, bool) {
	raw, ok := field.TypeOption(ft)
	if !ok {
		return nil, false
	}
	v := new(T)
	if raw == "" {
		return v, true
	}
	if err := json.UnmarshalFromString(raw, v); err != nil {
		return nil, false
	}
	return v, true
}

// typeOptionOrDefault is typeOptionEntry falling back to the zero options.
func typeOptionOrDefault[T any](field *types.FieldMeta, ft types.FieldType) *T {
	if v, ok := typeOptionEntry[T](field, ft); ok {
		return v
	}
	return new(T)
}

// operationEntry is typeOptionEntry for the handler P of T.
func operationEntry[T any, P interface {
	*T
	CellDataOperation
}](field *types.FieldMeta, ft types.FieldType) (CellDataOperation, bool) {
	v, ok := typeOptionEntry[T](field, ft)
	if !ok {
		return nil, false
	}
	return P(v), true
}

// MarshalTypeOption encodes a handler's options for FieldMeta.SetTypeOption.
func MarshalTypeOption(option CellDataOperation) (string, error) {
	s, err := json.MarshalToString(option)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidTypeOption, err)
	}
	return s, nil
}

// DefaultTypeOption returns the encoded default options for ft.
func DefaultTypeOption(ft types.FieldType) (string, error) {
	switch ft {
	case types.FieldTypeRichText:
		return MarshalTypeOption(&RichTextTypeOption{})
	case types.FieldTypeNumber:
		return MarshalTypeOption(&NumberTypeOption{Format: NumberFormatNumber})
	case types.FieldTypeDateTime:
		return MarshalTypeOption(&DateTypeOption{DateFormat: DateFormatFriendly, TimeFormat: TimeFormatTwentyFourHour})
	case types.FieldTypeSingleSelect:
		return MarshalTypeOption(&SingleSelectTypeOption{})
	case types.FieldTypeMultiSelect:
		return MarshalTypeOption(&MultiSelectTypeOption{})
	case types.FieldTypeCheckbox:
		return MarshalTypeOption(&CheckboxTypeOption{})
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnknownFieldType, ft)
	}
}

// ValidateTypeOption checks that raw decodes as the options of ft.
func ValidateTypeOption(ft types.FieldType, raw string) error {
	field := &types.FieldMeta{FieldType: ft}
	field.SetTypeOption(ft, raw)
	var ok bool
	switch ft {
	case types.FieldTypeRichText:
		_, ok = typeOptionEntry[RichTextTypeOption](field, ft)
	case types.FieldTypeNumber:
		_, ok = typeOptionEntry[NumberTypeOption](field, ft)
	case types.FieldTypeDateTime:
		_, ok = typeOptionEntry[DateTypeOption](field, ft)
	case types.FieldTypeSingleSelect:
		_, ok = typeOptionEntry[SingleSelectTypeOption](field, ft)
	case types.FieldTypeMultiSelect:
		_, ok = typeOptionEntry[MultiSelectTypeOption](field, ft)
	case types.FieldTypeCheckbox:
		_, ok = typeOptionEntry[CheckboxTypeOption](field, ft)
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownFieldType, ft)
	}
	if !ok {
		return fmt.Errorf("%w for %s", types.ErrInvalidTypeOption, ft)
	}
	return nil
}
