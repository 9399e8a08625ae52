package cell

import (
	"fmt"
	"unicode/utf8"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// MaxTextLength is the longest RichText cell accepted, in characters.
const MaxTextLength = 10000

// RichTextTypeOption handles RichText cells. The payload is the text itself.
type RichTextTypeOption struct {
	Format string `json:"format"`
}

// NewRichTextTypeOption returns the field's RichText options or the defaults.
func NewRichTextTypeOption(field *types.FieldMeta) *RichTextTypeOption {
	return typeOptionOrDefault[RichTextTypeOption](field, types.FieldTypeRichText)
}

// DecodeCellData renders the text as-is. A cell written under another field
// type is rendered by that type's handler when field still has its options,
// so switching a column to text keeps the old values readable.
func (o *RichTextTypeOption) DecodeCellData(data string, field *types.FieldMeta) DecodedCellData {
	if p, err := ParseTypeOptionCellData(data); err == nil {
		if !p.IsText() {
			if d, ok := DecodeCellData(nil, data, field, p.FieldType); ok {
				return DecodedCellDataFromContent(d.Content)
			}
		}
		return DecodedCellDataFromContent(p.Data)
	}
	return DecodedCellDataFromContent(data)
}

// ApplyChangeset stores the changeset text. Text that is not valid UTF-8
// fails with types.ErrInvalidCellData, and text longer than MaxTextLength
// characters with types.ErrTextTooLong.
func (o *RichTextTypeOption) ApplyChangeset(changeset Changeset, _ *types.CellMeta) (string, error) {
	s := changeset.String()
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", types.ErrInvalidCellData)
	}
	if n := utf8.RuneCountInString(s); n > MaxTextLength {
		return "", fmt.Errorf("%w: %d characters, limit is %d", types.ErrTextTooLong, n, MaxTextLength)
	}
	return s, nil
}
