package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/grid/pkg/types"
)

func TestTypeOptionCellDataRoundTrip(t *testing.T) {
	payloads := []string{"", "42", "hello world", `quoted "text"`, "a,b,c", "ünïcödé", "line\nbreak", `{"data":"nested"}`}
	for _, ft := range types.FieldTypes() {
		for _, data := range payloads {
			t.Run(string(ft)+"/"+data, func(t *testing.T) {
				p := NewTypeOptionCellData(data, ft)

				got, err := ParseTypeOptionCellData(p.JSON())
				require.NoError(t, err)
				assert.Equal(t, p, got)
			})
		}
	}
}

func TestTypeOptionCellDataJSONNotEmpty(t *testing.T) {
	for _, ft := range types.FieldTypes() {
		p := NewTypeOptionCellData("abc123XYZ", ft)
		assert.NotEmpty(t, p.JSON())
		assert.NotEmpty(t, p.JSONWithLog(zap.NewNop()))
	}
}

func TestNewTypeOptionCellDataStringifies(t *testing.T) {
	assert.Equal(t, "42", NewTypeOptionCellData(42, types.FieldTypeNumber).Data)
	assert.Equal(t, "true", NewTypeOptionCellData(true, types.FieldTypeCheckbox).Data)
	assert.Equal(t, "", NewTypeOptionCellData(nil, types.FieldTypeRichText).Data)
}

func TestParseTypeOptionCellDataErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"plain text", "hello"},
		{"number", "42"},
		{"truncated", `{"data":"4`},
		{"missing field type", `{"data":"42"}`},
		{"unknown field type", `{"data":"42","field_type":"Formula"}`},
		{"array", `["42","Number"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTypeOptionCellData(tt.in)
			assert.ErrorIs(t, err, types.ErrDeserialization)
		})
	}
}

func TestTypeOptionCellDataPredicates(t *testing.T) {
	for _, ft := range types.FieldTypes() {
		p := NewTypeOptionCellData("x", ft)
		assert.Equal(t, ft == types.FieldTypeNumber, p.IsNumber(), ft)
		assert.Equal(t, ft == types.FieldTypeRichText, p.IsText(), ft)
		assert.Equal(t, ft == types.FieldTypeCheckbox, p.IsCheckbox(), ft)
		assert.Equal(t, ft == types.FieldTypeDateTime, p.IsDate(), ft)
		assert.Equal(t, ft == types.FieldTypeSingleSelect, p.IsSingleSelect(), ft)
		assert.Equal(t, ft == types.FieldTypeMultiSelect, p.IsMultiSelect(), ft)
	}
}

func TestJSONWithLogSilentOnSuccess(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := NewTypeOptionCellData("ok", types.FieldTypeRichText)
	assert.Equal(t, p.JSON(), p.JSONWithLog(zap.New(core)))
	assert.Zero(t, logs.Len())
}

func TestTypeOptionCellDataInvalidUTF8(t *testing.T) {
	// The encoder would swap \xff for U+FFFD and the envelope would parse
	// back to different data, so it is not serialized at all.
	p := NewTypeOptionCellData("a\xffb", types.FieldTypeRichText)
	assert.Empty(t, p.JSON())

	core, logs := observer.New(zap.DebugLevel)
	assert.Empty(t, p.JSONWithLog(zap.New(core)))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "RichText", entry.ContextMap()["field_type"])
}
