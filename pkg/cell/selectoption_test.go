package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/mesh-intelligence/grid/pkg/types"
)

func sampleOptions() (SelectOptions, SelectOption, SelectOption, SelectOption) {
	low := NewSelectOption("Low")
	mid := NewSelectOption("Mid")
	high := NewSelectOption("High")
	return SelectOptions{Options: []SelectOption{low, mid, high}}, low, mid, high
}

func TestSelectOptionsInsertDelete(t *testing.T) {
	var opts SelectOptions
	a := NewSelectOption("A")
	require.NoError(t, opts.InsertOption(a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, SelectOptionColorPurple, a.Color)

	renamed := a
	renamed.Name = "A2"
	require.NoError(t, opts.InsertOption(renamed), "same id replaces")
	require.Len(t, opts.Options, 1)
	assert.Equal(t, "A2", opts.Options[0].Name)

	assert.ErrorIs(t, opts.InsertOption(NewSelectOption("A2")), types.ErrDuplicateName)
	assert.ErrorIs(t, opts.InsertOption(NewSelectOption(" ")), types.ErrInvalidName)

	opts.DeleteOption(a.ID)
	opts.DeleteOption(a.ID)
	assert.Empty(t, opts.Options)
}

func TestSingleSelectApplyChangeset(t *testing.T) {
	opts, low, mid, _ := sampleOptions()
	option := &SingleSelectTypeOption{opts}

	t.Run("valid id", func(t *testing.T) {
		got, err := option.ApplyChangeset(NewChangeset(low.ID), nil)
		require.NoError(t, err)
		assert.Equal(t, low.ID, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := option.ApplyChangeset(NewChangeset("no-such-option"), nil)
		assert.ErrorIs(t, err, types.ErrOptionNotFound)
		assert.ErrorIs(t, err, types.ErrInvalidCellData)
	})

	t.Run("insert replaces current", func(t *testing.T) {
		existing := storedCell("f", low.ID, types.FieldTypeSingleSelect)
		chg := SelectOptionCellChangeset{InsertOptionID: mid.ID}.JSON()
		got, err := option.ApplyChangeset(NewChangeset(chg), existing)
		require.NoError(t, err)
		assert.Equal(t, mid.ID, got)
	})

	t.Run("delete current clears", func(t *testing.T) {
		existing := storedCell("f", low.ID, types.FieldTypeSingleSelect)
		chg := SelectOptionCellChangeset{DeleteOptionID: low.ID}.JSON()
		got, err := option.ApplyChangeset(NewChangeset(chg), existing)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete other keeps current", func(t *testing.T) {
		existing := storedCell("f", low.ID, types.FieldTypeSingleSelect)
		chg := SelectOptionCellChangeset{DeleteOptionID: mid.ID}.JSON()
		got, err := option.ApplyChangeset(NewChangeset(chg), existing)
		require.NoError(t, err)
		assert.Equal(t, low.ID, got)
	})

	t.Run("empty changeset clears", func(t *testing.T) {
		existing := storedCell("f", low.ID, types.FieldTypeSingleSelect)
		for _, chg := range []string{"", "  "} {
			got, err := option.ApplyChangeset(NewChangeset(chg), existing)
			require.NoError(t, err)
			assert.Empty(t, got, chg)
		}
	})

	t.Run("malformed changeset", func(t *testing.T) {
		_, err := option.ApplyChangeset(NewChangeset(`{"insert_option_id":`), nil)
		assert.ErrorIs(t, err, types.ErrInvalidCellData)
	})
}

func TestSingleSelectDecodeReturnsLabel(t *testing.T) {
	opts, low, _, _ := sampleOptions()
	field := newField(t, types.FieldTypeSingleSelect, &SingleSelectTypeOption{opts})

	raw, err := ApplyCellDataChangeset(NewChangeset(low.ID), nil, field)
	require.NoError(t, err)

	d, ok := DecodeCellData(nil, raw, field, types.FieldTypeSingleSelect)
	require.True(t, ok)
	assert.Equal(t, "Low", d.Content)
	assert.Equal(t, low.ID, d.Raw)

	_, err = ApplyCellDataChangeset(NewChangeset("missing"), nil, field)
	assert.ErrorIs(t, err, types.ErrOptionNotFound)
}

func TestMultiSelectApplyChangeset(t *testing.T) {
	opts, low, mid, high := sampleOptions()
	option := &MultiSelectTypeOption{opts}

	t.Run("new cell starts empty", func(t *testing.T) {
		got, err := option.ApplyChangeset(NewChangeset(low.ID), nil)
		require.NoError(t, err)
		assert.Equal(t, low.ID, got)
	})

	t.Run("insert merges with existing", func(t *testing.T) {
		existing := storedCell("f", low.ID, types.FieldTypeMultiSelect)
		chg := SelectOptionCellChangeset{InsertOptionID: mid.ID + "," + low.ID}.JSON()
		got, err := option.ApplyChangeset(NewChangeset(chg), existing)
		require.NoError(t, err)
		assert.Equal(t, low.ID+","+mid.ID, got)
	})

	t.Run("delete removes", func(t *testing.T) {
		existing := storedCell("f", low.ID+","+mid.ID+","+high.ID, types.FieldTypeMultiSelect)
		chg := SelectOptionCellChangeset{DeleteOptionID: mid.ID}.JSON()
		got, err := option.ApplyChangeset(NewChangeset(chg), existing)
		require.NoError(t, err)
		assert.Equal(t, low.ID+","+high.ID, got)
	})

	t.Run("empty changeset clears", func(t *testing.T) {
		existing := storedCell("f", low.ID+","+mid.ID, types.FieldTypeMultiSelect)
		got, err := option.ApplyChangeset(NewChangeset(""), existing)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("every unknown id is reported", func(t *testing.T) {
		_, err := option.ApplyChangeset(NewChangeset("x1,"+low.ID+",x2"), nil)
		require.Error(t, err)
		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		for _, e := range errs {
			assert.ErrorIs(t, e, types.ErrOptionNotFound)
		}
		assert.Contains(t, err.Error(), "x1")
		assert.Contains(t, err.Error(), "x2")
	})
}

func TestSelectDecodeSkipsUnknownIDs(t *testing.T) {
	opts, low, _, high := sampleOptions()
	option := &MultiSelectTypeOption{opts}

	d := option.DecodeCellData(low.ID+",deleted,"+high.ID, nil)
	assert.Equal(t, "Low,High", d.Content)
	assert.Equal(t, low.ID+",deleted,"+high.ID, d.Raw)

	assert.Equal(t, DecodedCellData{}, option.DecodeCellData("", nil))
}

func TestAddSelectOption(t *testing.T) {
	field := &types.FieldMeta{FieldID: "f", Name: "Tags", FieldType: types.FieldTypeMultiSelect}

	opt, err := AddSelectOption(field, " urgent ")
	require.NoError(t, err)
	assert.Equal(t, "urgent", opt.Name)
	assert.NotEmpty(t, opt.ID)

	_, err = AddSelectOption(field, "urgent")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	got, err := ApplyCellDataChangeset(NewChangeset(SelectOptionCellChangeset{InsertOptionID: opt.ID}.JSON()), nil, field)
	require.NoError(t, err)
	assert.Equal(t, opt.ID, got)

	decoded, ok := DecodeCellData(nil, got, field, types.FieldTypeMultiSelect)
	require.True(t, ok)
	assert.Equal(t, "urgent", decoded.Content)

	_, err = AddSelectOption(&types.FieldMeta{FieldType: types.FieldTypeNumber}, "x")
	assert.ErrorIs(t, err, types.ErrInvalidFieldType)
	_, err = AddSelectOption(field, "  ")
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestDeleteSelectOption(t *testing.T) {
	field := &types.FieldMeta{FieldID: "f", Name: "Status", FieldType: types.FieldTypeSingleSelect}
	todo, err := AddSelectOption(field, "todo")
	require.NoError(t, err)
	done, err := AddSelectOption(field, "done")
	require.NoError(t, err)

	stored, err := ApplyCellDataChangeset(NewChangeset(todo.ID), nil, field)
	require.NoError(t, err)

	require.NoError(t, DeleteSelectOption(field, todo.ID))
	assert.ErrorIs(t, DeleteSelectOption(field, todo.ID), types.ErrOptionNotFound)

	opts := NewSingleSelectTypeOption(field)
	require.Len(t, opts.Options, 1)
	assert.Equal(t, done.ID, opts.Options[0].ID)

	// The cell still holds the id but no longer renders a name.
	d, ok := DecodeCellData(nil, stored, field, types.FieldTypeSingleSelect)
	require.True(t, ok)
	assert.Equal(t, todo.ID, d.Raw)
	assert.Empty(t, d.Content)

	_, err = ApplyCellDataChangeset(NewChangeset(todo.ID), nil, field)
	assert.ErrorIs(t, err, types.ErrOptionNotFound)

	assert.ErrorIs(t, DeleteSelectOption(&types.FieldMeta{FieldType: types.FieldTypeCheckbox}, "x"), types.ErrInvalidFieldType)
}
