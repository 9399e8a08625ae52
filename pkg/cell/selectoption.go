package cell

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// SelectOptionIDsSeparator joins option ids in a stored select payload.
const SelectOptionIDsSeparator = ","

// SelectOptionColor names the color an option is drawn with.
type SelectOptionColor string

const (
	SelectOptionColorPurple    SelectOptionColor = "Purple"
	SelectOptionColorPink      SelectOptionColor = "Pink"
	SelectOptionColorLightPink SelectOptionColor = "LightPink"
	SelectOptionColorOrange    SelectOptionColor = "Orange"
	SelectOptionColorYellow    SelectOptionColor = "Yellow"
	SelectOptionColorLime      SelectOptionColor = "Lime"
	SelectOptionColorGreen     SelectOptionColor = "Green"
	SelectOptionColorAqua      SelectOptionColor = "Aqua"
	SelectOptionColorBlue      SelectOptionColor = "Blue"
)

// SelectOption is one choice of a select field.
type SelectOption struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Color SelectOptionColor `json:"color"`
}

// NewSelectOption returns an option with a fresh id.
func NewSelectOption(name string) SelectOption {
	return SelectOption{
		ID:    uuid.NewString(),
		Name:  name,
		Color: SelectOptionColorPurple,
	}
}

// SelectOptionCellChangeset edits a select cell. Either id may hold several
// ids joined by SelectOptionIDsSeparator.
type SelectOptionCellChangeset struct {
	InsertOptionID string `json:"insert_option_id,omitempty"`
	DeleteOptionID string `json:"delete_option_id,omitempty"`
}

// JSON returns the changeset as accepted by select ApplyChangeset, or "" if
// it cannot be marshaled. An empty changeset clears the cell, so callers
// that build one from untrusted ids should check for "".
func (c SelectOptionCellChangeset) JSON() string {
	s, err := json.MarshalToString(c)
	if err != nil {
		return ""
	}
	return s
}

// SelectOptions is the option list shared by single and multi select fields.
type SelectOptions struct {
	Options      []SelectOption `json:"options"`
	DisableColor bool           `json:"disable_color"`
}

// Option returns the option with the given id.
func (s *SelectOptions) Option(id string) (SelectOption, bool) {
	for _, opt := range s.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return SelectOption{}, false
}

// InsertOption adds opt, or replaces the option with the same id.
// Returns types.ErrInvalidName for an empty name or one already used by
// another option.
func (s *SelectOptions) InsertOption(opt SelectOption) error {
	if strings.TrimSpace(opt.Name) == "" {
		return types.ErrInvalidName
	}
	for i, existing := range s.Options {
		if existing.ID == opt.ID {
			s.Options[i] = opt
			return nil
		}
		if existing.Name == opt.Name {
			return fmt.Errorf("%w: option %q", types.ErrDuplicateName, opt.Name)
		}
	}
	s.Options = append(s.Options, opt)
	return nil
}

// DeleteOption removes the option with the given id. Idempotent.
func (s *SelectOptions) DeleteOption(id string) {
	kept := s.Options[:0]
	for _, opt := range s.Options {
		if opt.ID != id {
			kept = append(kept, opt)
		}
	}
	s.Options = kept
}

// validateIDs reports every id that is not an option, combined.
func (s *SelectOptions) validateIDs(ids []string) error {
	var err error
	for _, id := range ids {
		if _, ok := s.Option(id); !ok {
			err = multierr.Append(err, fmt.Errorf("%w: %q", types.ErrOptionNotFound, id))
		}
	}
	return err
}

// decode renders the names of the known ids in data; unknown ids are
// skipped, since the option may have been deleted after the cell was set.
func (s *SelectOptions) decode(data string) DecodedCellData {
	ids := splitOptionIDs(unwrapCellData(data))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if opt, ok := s.Option(id); ok {
			names = append(names, opt.Name)
		}
	}
	return NewDecodedCellData(
		strings.Join(ids, SelectOptionIDsSeparator),
		strings.Join(names, SelectOptionIDsSeparator),
	)
}

// SingleSelectTypeOption handles SingleSelect cells. The payload is the
// selected option id, or "".
type SingleSelectTypeOption struct {
	SelectOptions
}

// NewSingleSelectTypeOption returns the field's SingleSelect options or the
// defaults.
func NewSingleSelectTypeOption(field *types.FieldMeta) *SingleSelectTypeOption {
	return typeOptionOrDefault[SingleSelectTypeOption](field, types.FieldTypeSingleSelect)
}

func (o *SingleSelectTypeOption) DecodeCellData(data string, _ *types.FieldMeta) DecodedCellData {
	return o.decode(data)
}

// ApplyChangeset selects the inserted option, the last one if several are
// given, or clears the cell when the current option is deleted. An empty
// changeset clears the cell. Unknown inserted ids fail with
// types.ErrOptionNotFound.
func (o *SingleSelectTypeOption) ApplyChangeset(changeset Changeset, cell *types.CellMeta) (string, error) {
	if strings.TrimSpace(changeset.String()) == "" {
		return "", nil
	}
	insert, remove, err := parseSelectChangeset(changeset)
	if err != nil {
		return "", err
	}
	if err := o.validateIDs(insert); err != nil {
		return "", err
	}

	selected := ""
	if current := splitOptionIDs(cellPayload(cell)); len(current) > 0 {
		selected = current[0]
	}
	if len(insert) > 0 {
		selected = insert[len(insert)-1]
	}
	for _, id := range remove {
		if id == selected {
			selected = ""
		}
	}
	return selected, nil
}

// MultiSelectTypeOption handles MultiSelect cells. The payload is the
// selected option ids joined by SelectOptionIDsSeparator.
type MultiSelectTypeOption struct {
	SelectOptions
}

// NewMultiSelectTypeOption returns the field's MultiSelect options or the
// defaults.
func NewMultiSelectTypeOption(field *types.FieldMeta) *MultiSelectTypeOption {
	return typeOptionOrDefault[MultiSelectTypeOption](field, types.FieldTypeMultiSelect)
}

func (o *MultiSelectTypeOption) DecodeCellData(data string, _ *types.FieldMeta) DecodedCellData {
	return o.decode(data)
}

// ApplyChangeset adds the inserted ids to the cell's current selection and
// removes the deleted ones. An empty changeset clears the cell. Every
// unknown inserted id is reported, each wrapping types.ErrOptionNotFound.
func (o *MultiSelectTypeOption) ApplyChangeset(changeset Changeset, cell *types.CellMeta) (string, error) {
	if strings.TrimSpace(changeset.String()) == "" {
		return "", nil
	}
	insert, remove, err := parseSelectChangeset(changeset)
	if err != nil {
		return "", err
	}
	if err := o.validateIDs(insert); err != nil {
		return "", err
	}

	selected := splitOptionIDs(cellPayload(cell))
	seen := make(map[string]bool, len(selected)+len(insert))
	for _, id := range selected {
		seen[id] = true
	}
	for _, id := range insert {
		if !seen[id] {
			seen[id] = true
			selected = append(selected, id)
		}
	}

	removed := make(map[string]bool, len(remove))
	for _, id := range remove {
		removed[id] = true
	}
	kept := selected[:0]
	for _, id := range selected {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	return strings.Join(kept, SelectOptionIDsSeparator), nil
}

// parseSelectChangeset reads a SelectOptionCellChangeset in JSON, or bare
// ids to insert.
func parseSelectChangeset(changeset Changeset) (insert, remove []string, err error) {
	s := strings.TrimSpace(changeset.String())
	if !strings.HasPrefix(s, "{") {
		return splitOptionIDs(s), nil, nil
	}
	var chg SelectOptionCellChangeset
	if err := json.UnmarshalFromString(s, &chg); err != nil {
		return nil, nil, fmt.Errorf("%w: select changeset: %v", types.ErrInvalidCellData, err)
	}
	return splitOptionIDs(chg.InsertOptionID), splitOptionIDs(chg.DeleteOptionID), nil
}

func splitOptionIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, SelectOptionIDsSeparator) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddSelectOption creates an option called name on a select field and stores
// the updated options back on field. Returns types.ErrInvalidFieldType for
// any other field type.
func AddSelectOption(field *types.FieldMeta, name string) (SelectOption, error) {
	opt := NewSelectOption(strings.TrimSpace(name))
	err := editSelectOptions(field, func(opts *SelectOptions) error {
		return opts.InsertOption(opt)
	})
	if err != nil {
		return SelectOption{}, err
	}
	return opt, nil
}

// DeleteSelectOption removes the option with the given id from a select
// field. Cells holding the id keep it; decode skips ids that are no longer
// options. Returns types.ErrOptionNotFound when the field has no such option.
func DeleteSelectOption(field *types.FieldMeta, optionID string) error {
	return editSelectOptions(field, func(opts *SelectOptions) error {
		if _, ok := opts.Option(optionID); !ok {
			return fmt.Errorf("%w: %q", types.ErrOptionNotFound, optionID)
		}
		opts.DeleteOption(optionID)
		return nil
	})
}

// editSelectOptions applies edit to the options of a select field and, on
// success, stores them back on field.
func editSelectOptions(field *types.FieldMeta, edit func(*SelectOptions) error) error {
	if field == nil {
		return types.ErrInvalidData
	}

	var (
		updated CellDataOperation
		err     error
	)
	switch field.FieldType {
	case types.FieldTypeSingleSelect:
		o := typeOptionOrDefault[SingleSelectTypeOption](field, field.FieldType)
		err = edit(&o.SelectOptions)
		updated = o
	case types.FieldTypeMultiSelect:
		o := typeOptionOrDefault[MultiSelectTypeOption](field, field.FieldType)
		err = edit(&o.SelectOptions)
		updated = o
	default:
		return fmt.Errorf("%w: %s has no options", types.ErrInvalidFieldType, field.FieldType)
	}
	if err != nil {
		return err
	}

	raw, err := MarshalTypeOption(updated)
	if err != nil {
		return err
	}
	field.SetTypeOption(field.FieldType, raw)
	return nil
}
