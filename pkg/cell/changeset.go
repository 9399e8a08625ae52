package cell

import "fmt"

// Changeset is a proposed edit to a cell, before validation. Its meaning
// depends on the field type: plain text for RichText, digits for Number,
// a SelectOptionCellChangeset for select fields, and so on.
type Changeset string

// NewChangeset builds a Changeset from any string-like value.
func NewChangeset(v any) Changeset {
	switch s := v.(type) {
	case Changeset:
		return s
	case string:
		return Changeset(s)
	case []byte:
		return Changeset(s)
	case fmt.Stringer:
		return Changeset(s.String())
	case nil:
		return ""
	default:
		return Changeset(fmt.Sprint(v))
	}
}

func (c Changeset) String() string {
	return string(c)
}
