// Package cell encodes, decodes and mutates a single grid cell whatever the
// column's field type.
//
// Every field type has a handler implementing CellDataOperation. The router
// functions pick the handler from the field metadata:
//
//	raw, err := cell.ApplyCellDataChangeset(cell.NewChangeset("42"), existing, field)
//	decoded, ok := cell.DecodeCellData(log, raw, field, field.FieldType)
//
// Writes are strict: a changeset the field cannot accept fails with an error
// wrapping types.ErrInvalidCellData. Reads are lenient: malformed or legacy
// payloads decode to a best-effort DecodedCellData and never fail. A field
// without configuration for the requested type decodes to "no value"
// (ok == false), which callers render as an empty cell.
//
// Stored payloads are wrapped in a TypeOptionCellData envelope that records
// the field type that wrote them. Handlers accept both the envelope and the
// bare payload.
package cell
