package cell

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// TypeOptionCellData is the envelope a cell payload is stored in. It records
// the field type that produced Data, so a cell stays readable after its
// column changes type.
//
// Callers must treat the serialized form as opaque and only produce it with
// JSON and read it with ParseTypeOptionCellData.
type TypeOptionCellData struct {
	Data      string          `json:"data"`
	FieldType types.FieldType `json:"field_type"`
}

// NewTypeOptionCellData wraps data, formatted with fmt.Sprint, for fieldType.
func NewTypeOptionCellData(data any, fieldType types.FieldType) TypeOptionCellData {
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case nil:
	default:
		s = fmt.Sprint(v)
	}
	return TypeOptionCellData{Data: s, FieldType: fieldType}
}

// ParseTypeOptionCellData parses an envelope produced by JSON. It returns an
// error wrapping types.ErrDeserialization when s is not a well-formed
// envelope.
func ParseTypeOptionCellData(s string) (TypeOptionCellData, error) {
	var p TypeOptionCellData
	if err := json.UnmarshalFromString(s, &p); err != nil {
		return TypeOptionCellData{}, fmt.Errorf("%w: %v", types.ErrDeserialization, err)
	}
	if !p.FieldType.IsValid() {
		return TypeOptionCellData{}, fmt.Errorf("%w: field type %q", types.ErrDeserialization, p.FieldType)
	}
	return p, nil
}

// marshal serializes p. Data that is not valid UTF-8 is refused, since the
// encoder would replace the bad bytes and the envelope would no longer
// parse back to p.
func (p TypeOptionCellData) marshal() (string, error) {
	if !utf8.ValidString(p.Data) {
		return "", fmt.Errorf("%w: data is not valid UTF-8", types.ErrInvalidCellData)
	}
	return json.MarshalToString(p)
}

// JSON returns the serialized envelope, or "" if it cannot be marshaled.
// Data that is not valid UTF-8 is the only failure; use JSONWithLog where a
// silent "" would hide a bug.
func (p TypeOptionCellData) JSON() string {
	s, err := p.marshal()
	if err != nil {
		return ""
	}
	return s
}

// JSONWithLog is JSON that logs the marshal failure before returning "".
func (p TypeOptionCellData) JSONWithLog(log *zap.Logger) string {
	s, err := p.marshal()
	if err != nil {
		if log != nil {
			log.Warn("cell data envelope not serialized",
				zap.Stringer("field_type", p.FieldType), zap.Error(err))
		}
		return ""
	}
	return s
}

func (p TypeOptionCellData) IsNumber() bool       { return p.FieldType == types.FieldTypeNumber }
func (p TypeOptionCellData) IsText() bool         { return p.FieldType == types.FieldTypeRichText }
func (p TypeOptionCellData) IsCheckbox() bool     { return p.FieldType == types.FieldTypeCheckbox }
func (p TypeOptionCellData) IsDate() bool         { return p.FieldType == types.FieldTypeDateTime }
func (p TypeOptionCellData) IsSingleSelect() bool { return p.FieldType == types.FieldTypeSingleSelect }
func (p TypeOptionCellData) IsMultiSelect() bool  { return p.FieldType == types.FieldTypeMultiSelect }

// unwrapCellData returns the payload inside an envelope, or data itself when
// it is not one. Decoding never fails, so a malformed envelope is handed to
// the handler as a bare payload.
func unwrapCellData(data string) string {
	if p, err := ParseTypeOptionCellData(data); err == nil {
		return p.Data
	}
	return data
}

// cellPayload returns the bare payload stored in cell, or "" for a new cell.
func cellPayload(cell *types.CellMeta) string {
	if cell == nil {
		return ""
	}
	return unwrapCellData(cell.Data)
}
