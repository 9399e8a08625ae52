package cell

// DecodedCellData is the result of decoding a stored cell. Raw is the
// canonical stored value and Content its display form. The zero value is an
// empty cell.
type DecodedCellData struct {
	Raw     string `json:"raw"`
	Content string `json:"content"`
}

// NewDecodedCellData returns a DecodedCellData with distinct raw and content.
func NewDecodedCellData(raw, content string) DecodedCellData {
	return DecodedCellData{Raw: raw, Content: content}
}

// DecodedCellDataFromContent is for types whose display form is the raw value.
func DecodedCellDataFromContent(content string) DecodedCellData {
	return DecodedCellData{Raw: content, Content: content}
}

// Split returns raw and content.
func (d DecodedCellData) Split() (string, string) {
	return d.Raw, d.Content
}
