package types

import (
	"fmt"
	"time"
)

// FieldType is the declared kind of a column. It governs how the column's
// cells are stored, validated and displayed.
type FieldType string

// Field types. The set is closed; adding one means adding a handler arm in
// the cell package router.
const (
	FieldTypeRichText     FieldType = "RichText"
	FieldTypeNumber       FieldType = "Number"
	FieldTypeDateTime     FieldType = "DateTime"
	FieldTypeSingleSelect FieldType = "SingleSelect"
	FieldTypeMultiSelect  FieldType = "MultiSelect"
	FieldTypeCheckbox     FieldType = "Checkbox"
)

// fieldTypes lists every field type in declaration order.
var fieldTypes = []FieldType{
	FieldTypeRichText,
	FieldTypeNumber,
	FieldTypeDateTime,
	FieldTypeSingleSelect,
	FieldTypeMultiSelect,
	FieldTypeCheckbox,
}

// validFieldTypes is the set of recognized field types.
var validFieldTypes = map[FieldType]bool{
	FieldTypeRichText:     true,
	FieldTypeNumber:       true,
	FieldTypeDateTime:     true,
	FieldTypeSingleSelect: true,
	FieldTypeMultiSelect:  true,
	FieldTypeCheckbox:     true,
}

// FieldTypes returns a copy of all field types in declaration order.
func FieldTypes() []FieldType {
	out := make([]FieldType, len(fieldTypes))
	copy(out, fieldTypes)
	return out
}

// IsValid reports whether ft is a recognized field type.
func (ft FieldType) IsValid() bool {
	return validFieldTypes[ft]
}

func (ft FieldType) String() string {
	return string(ft)
}

// ParseFieldType converts s into a FieldType.
// Returns ErrInvalidFieldType if s is not recognized.
func ParseFieldType(s string) (FieldType, error) {
	ft := FieldType(s)
	if !ft.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFieldType, s)
	}
	return ft, nil
}

// FieldMeta describes a column: its name, its field type and the
// type-specific configuration for every type the column has been viewed as.
type FieldMeta struct {
	FieldID   string    `json:"field_id"`
	Name      string    `json:"name"`
	FieldType FieldType `json:"field_type"`

	// TypeOptions holds JSON-encoded type-option configuration keyed by
	// field type. A field keeps the options of previous types when it is
	// switched, so cells written under the old type stay readable.
	TypeOptions map[FieldType]string `json:"type_options"`

	CreatedAt time.Time `json:"created_at"`
}

// TypeOption returns the raw JSON configuration stored for ft.
func (f *FieldMeta) TypeOption(ft FieldType) (string, bool) {
	if f == nil || f.TypeOptions == nil {
		return "", false
	}
	s, ok := f.TypeOptions[ft]
	return s, ok
}

// SetTypeOption stores the JSON configuration for ft.
func (f *FieldMeta) SetTypeOption(ft FieldType, data string) {
	if f.TypeOptions == nil {
		f.TypeOptions = make(map[FieldType]string)
	}
	f.TypeOptions[ft] = data
}
