package cell

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// Stored checkbox payloads.
const (
	CheckboxChecked   = "true"
	CheckboxUnchecked = "false"
)

// Rendered checkbox states.
const (
	CheckboxContentChecked   = "Yes"
	CheckboxContentUnchecked = "No"
)

// CheckboxTypeOption handles Checkbox cells.
type CheckboxTypeOption struct {
	// IsSelected is the state shown for rows that never set the cell.
	IsSelected bool `json:"is_selected"`
}

// NewCheckboxTypeOption returns the field's Checkbox options or the defaults.
func NewCheckboxTypeOption(field *types.FieldMeta) *CheckboxTypeOption {
	return typeOptionOrDefault[CheckboxTypeOption](field, types.FieldTypeCheckbox)
}

// DecodeCellData renders "Yes" for true, 1 and the legacy yes, "No" for
// anything else. An empty payload renders the IsSelected default.
func (o *CheckboxTypeOption) DecodeCellData(data string, _ *types.FieldMeta) DecodedCellData {
	raw := strings.TrimSpace(unwrapCellData(data))
	checked := o.IsSelected
	if raw != "" {
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			checked = true
		default:
			checked = false
		}
	}
	if checked {
		return NewDecodedCellData(raw, CheckboxContentChecked)
	}
	return NewDecodedCellData(raw, CheckboxContentUnchecked)
}

// ApplyChangeset accepts true, false, 1 and 0, in any case, and stores
// "true" or "false". Anything else, yes included, fails with
// types.ErrInvalidCheckbox.
func (o *CheckboxTypeOption) ApplyChangeset(changeset Changeset, _ *types.CellMeta) (string, error) {
	switch strings.ToLower(strings.TrimSpace(changeset.String())) {
	case "true", "1":
		return CheckboxChecked, nil
	case "false", "0":
		return CheckboxUnchecked, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrInvalidCheckbox, changeset.String())
	}
}
