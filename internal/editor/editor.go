// Package editor applies cell edits and renders cells against a Grid. It is
// the collaborator that owns rows: it loads the field and row, routes the
// change through pkg/cell and stores the result in its envelope.
package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/grid/pkg/cell"
	"github.com/mesh-intelligence/grid/pkg/types"
)

// Editor edits and decodes the cells of one attached Grid.
type Editor struct {
	grid types.Grid
	log  *zap.Logger
}

// New returns an Editor over an attached grid. A nil log discards output.
func New(grid types.Grid, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{grid: grid, log: log.Named("editor")}
}

func (e *Editor) table(name string) (types.Table, error) {
	tbl, err := e.grid.GetTable(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s table: %w", name, err)
	}
	return tbl, nil
}

// Field returns the field with the given id, or an error wrapping
// types.ErrFieldNotFound.
func (e *Editor) Field(fieldID string) (*types.FieldMeta, error) {
	fields, err := e.table(types.TableFields)
	if err != nil {
		return nil, err
	}
	v, err := fields.Get(fieldID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %q", types.ErrFieldNotFound, fieldID)
		}
		return nil, err
	}
	return v.(*types.FieldMeta), nil
}

// Fields lists every field in creation order.
func (e *Editor) Fields() ([]*types.FieldMeta, error) {
	fields, err := e.table(types.TableFields)
	if err != nil {
		return nil, err
	}
	all, err := fields.Fetch(nil)
	if err != nil {
		return nil, err
	}
	out := make([]*types.FieldMeta, 0, len(all))
	for _, v := range all {
		out = append(out, v.(*types.FieldMeta))
	}
	return out, nil
}

// Row returns the row with the given id, or an error wrapping
// types.ErrRowNotFound.
func (e *Editor) Row(rowID string) (*types.Row, error) {
	rows, err := e.table(types.TableRows)
	if err != nil {
		return nil, err
	}
	v, err := rows.Get(rowID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %q", types.ErrRowNotFound, rowID)
		}
		return nil, err
	}
	return v.(*types.Row), nil
}

// CreateField adds a field of type ft. options, when not empty, must decode
// as the options of ft; otherwise the defaults for ft are stored.
func (e *Editor) CreateField(name string, ft types.FieldType, options string) (*types.FieldMeta, error) {
	if !ft.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidFieldType, ft)
	}
	if options == "" {
		def, err := cell.DefaultTypeOption(ft)
		if err != nil {
			return nil, err
		}
		options = def
	} else if err := cell.ValidateTypeOption(ft, options); err != nil {
		return nil, err
	}

	fields, err := e.table(types.TableFields)
	if err != nil {
		return nil, err
	}
	field := &types.FieldMeta{Name: name, FieldType: ft}
	field.SetTypeOption(ft, options)
	if _, err := fields.Set("", field); err != nil {
		return nil, err
	}
	e.log.Debug("field created", zap.String("field_id", field.FieldID), zap.Stringer("field_type", ft))
	return field, nil
}

// SwitchFieldType changes the type of a field. Options for the new type are
// seeded with the defaults when the field has none. Stored cells are left as
// they are and read leniently under the new type.
func (e *Editor) SwitchFieldType(fieldID string, ft types.FieldType) (*types.FieldMeta, error) {
	if !ft.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidFieldType, ft)
	}
	field, err := e.Field(fieldID)
	if err != nil {
		return nil, err
	}
	if field.FieldType == ft {
		return field, nil
	}

	if _, ok := field.TypeOption(ft); !ok {
		def, err := cell.DefaultTypeOption(ft)
		if err != nil {
			return nil, err
		}
		field.SetTypeOption(ft, def)
	}
	from := field.FieldType
	field.FieldType = ft

	fields, err := e.table(types.TableFields)
	if err != nil {
		return nil, err
	}
	if _, err := fields.Set(field.FieldID, field); err != nil {
		return nil, err
	}
	e.log.Info("field type switched",
		zap.String("field_id", fieldID), zap.Stringer("from", from), zap.Stringer("to", ft))
	return field, nil
}

// AddSelectOption adds an option called name to a select field.
func (e *Editor) AddSelectOption(fieldID, name string) (cell.SelectOption, error) {
	field, err := e.Field(fieldID)
	if err != nil {
		return cell.SelectOption{}, err
	}
	opt, err := cell.AddSelectOption(field, name)
	if err != nil {
		return cell.SelectOption{}, err
	}
	fields, err := e.table(types.TableFields)
	if err != nil {
		return cell.SelectOption{}, err
	}
	if _, err := fields.Set(field.FieldID, field); err != nil {
		return cell.SelectOption{}, err
	}
	return opt, nil
}

// DeleteSelectOption removes an option from a select field. Cells that
// selected it keep the id and render without it.
func (e *Editor) DeleteSelectOption(fieldID, optionID string) error {
	field, err := e.Field(fieldID)
	if err != nil {
		return err
	}
	if err := cell.DeleteSelectOption(field, optionID); err != nil {
		return err
	}
	fields, err := e.table(types.TableFields)
	if err != nil {
		return err
	}
	if _, err := fields.Set(field.FieldID, field); err != nil {
		return err
	}
	e.log.Info("select option deleted", zap.String("field_id", field.FieldID), zap.String("option_id", optionID))
	return nil
}

// DeleteField removes a field and its cells from every row.
func (e *Editor) DeleteField(fieldID string) error {
	fields, err := e.table(types.TableFields)
	if err != nil {
		return err
	}
	if err := fields.Delete(fieldID); err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
			return fmt.Errorf("%w: %q", types.ErrFieldNotFound, fieldID)
		}
		return err
	}
	return nil
}

// DeleteRow removes a row and its cells.
func (e *Editor) DeleteRow(rowID string) error {
	rows, err := e.table(types.TableRows)
	if err != nil {
		return err
	}
	if err := rows.Delete(rowID); err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
			return fmt.Errorf("%w: %q", types.ErrRowNotFound, rowID)
		}
		return err
	}
	return nil
}

// CreateRow adds an empty row.
func (e *Editor) CreateRow() (*types.Row, error) {
	rows, err := e.table(types.TableRows)
	if err != nil {
		return nil, err
	}
	row := &types.Row{}
	if _, err := rows.Set("", row); err != nil {
		return nil, err
	}
	return row, nil
}

// Rows lists every row in creation order.
func (e *Editor) Rows() ([]*types.Row, error) {
	rows, err := e.table(types.TableRows)
	if err != nil {
		return nil, err
	}
	all, err := rows.Fetch(nil)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Row, 0, len(all))
	for _, v := range all {
		out = append(out, v.(*types.Row))
	}
	return out, nil
}

// UpdateCell applies changeset to the cell at (rowID, fieldID) and stores the
// result. changeset may be a cell.Changeset, a string, []byte or anything
// fmt can print. It returns the new payload; validation errors from the field
// type's handler are returned unchanged and nothing is stored.
func (e *Editor) UpdateCell(rowID, fieldID string, changeset any) (string, error) {
	field, err := e.Field(fieldID)
	if err != nil {
		return "", err
	}
	row, err := e.Row(rowID)
	if err != nil {
		return "", err
	}

	payload, err := cell.ApplyCellDataChangeset(cell.NewChangeset(changeset), row.Cell(fieldID), field)
	if err != nil {
		e.log.Debug("cell change rejected",
			zap.String("row_id", rowID), zap.String("field_id", fieldID), zap.Error(err))
		return "", err
	}

	envelope := cell.NewTypeOptionCellData(payload, field.FieldType).JSONWithLog(e.log)
	row.SetCell(fieldID, envelope)

	rows, err := e.table(types.TableRows)
	if err != nil {
		return "", err
	}
	if _, err := rows.Set(row.RowID, row); err != nil {
		return "", fmt.Errorf("storing row %s: %w", rowID, err)
	}
	return payload, nil
}

// DecodeCell renders the cell at (rowID, fieldID) with the field's current
// type. ok is false when the field has no options for its type. A cell that
// was never written decodes from the empty payload.
func (e *Editor) DecodeCell(rowID, fieldID string) (cell.DecodedCellData, bool, error) {
	field, err := e.Field(fieldID)
	if err != nil {
		return cell.DecodedCellData{}, false, err
	}
	row, err := e.Row(rowID)
	if err != nil {
		return cell.DecodedCellData{}, false, err
	}
	decoded, ok := e.decode(row, field)
	return decoded, ok, nil
}

// DecodeRow renders every cell of a row, keyed by field id. Fields with no
// options for their type are left out.
func (e *Editor) DecodeRow(rowID string) (map[string]cell.DecodedCellData, error) {
	row, err := e.Row(rowID)
	if err != nil {
		return nil, err
	}
	fields, err := e.Fields()
	if err != nil {
		return nil, err
	}

	out := make(map[string]cell.DecodedCellData, len(fields))
	for _, field := range fields {
		if decoded, ok := e.decode(row, field); ok {
			out[field.FieldID] = decoded
		}
	}
	return out, nil
}

func (e *Editor) decode(row *types.Row, field *types.FieldMeta) (cell.DecodedCellData, bool) {
	var data string
	if c := row.Cell(field.FieldID); c != nil {
		data = c.Data
	}
	return cell.DecodeCellData(e.log, data, field, field.FieldType)
}
