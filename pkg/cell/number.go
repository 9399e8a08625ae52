package cell

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// NumberFormat selects how a Number cell is rendered.
type NumberFormat string

const (
	NumberFormatNumber         NumberFormat = "Number"
	NumberFormatUSD            NumberFormat = "USD"
	NumberFormatCanadianDollar NumberFormat = "CanadianDollar"
	NumberFormatEUR            NumberFormat = "EUR"
	NumberFormatPound          NumberFormat = "Pound"
	NumberFormatYen            NumberFormat = "Yen"
	NumberFormatRupee          NumberFormat = "Rupee"
	NumberFormatPercent        NumberFormat = "Percent"
)

// numberSymbols maps each currency format to its default symbol.
var numberSymbols = map[NumberFormat]string{
	NumberFormatUSD:            "$",
	NumberFormatCanadianDollar: "CA$",
	NumberFormatEUR:            "€",
	NumberFormatPound:          "£",
	NumberFormatYen:            "¥",
	NumberFormatRupee:          "₹",
}

// NumberTypeOption handles Number cells. The payload is the number in plain
// decimal notation, without symbol or grouping.
type NumberTypeOption struct {
	Format NumberFormat `json:"format"`
	// Scale is the number of decimals rendered. With the Number format a
	// scale of 0 restricts the cell to integers.
	Scale uint32 `json:"scale"`
	// Symbol overrides the currency symbol of Format.
	Symbol string `json:"symbol"`
	// SignPositive prefixes positive numbers with "+".
	SignPositive bool   `json:"sign_positive"`
	Name         string `json:"name"`
}

// NewNumberTypeOption returns the field's Number options or the defaults.
func NewNumberTypeOption(field *types.FieldMeta) *NumberTypeOption {
	return typeOptionOrDefault[NumberTypeOption](field, types.FieldTypeNumber)
}

func (o *NumberTypeOption) format() NumberFormat {
	if o.Format == "" {
		return NumberFormatNumber
	}
	return o.Format
}

func (o *NumberTypeOption) symbol() string {
	if o.Symbol != "" {
		return o.Symbol
	}
	return numberSymbols[o.format()]
}

func (o *NumberTypeOption) integerOnly() bool {
	return o.format() == NumberFormatNumber && o.Scale == 0
}

// stripSymbol removes the currency symbol, percent sign, grouping commas and
// spaces from s.
func (o *NumberTypeOption) stripSymbol(s string) string {
	if sym := o.symbol(); sym != "" {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// DecodeCellData renders the number with the configured symbol, scale and
// digit grouping. A payload that is not a number renders "".
func (o *NumberTypeOption) DecodeCellData(data string, _ *types.FieldMeta) DecodedCellData {
	raw := strings.TrimSpace(unwrapCellData(data))
	if raw == "" {
		return DecodedCellData{}
	}
	p := message.NewPrinter(language.English)
	if o.integerOnly() {
		// Integers are printed from int64; float64 loses digits past 2^53.
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			var abs uint64
			if n < 0 {
				abs = uint64(-(n + 1)) + 1
			} else {
				abs = uint64(n)
			}
			return NewDecodedCellData(raw, o.decorate(n < 0, n > 0, p.Sprintf("%d", abs)))
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return NewDecodedCellData(raw, "")
	}
	digits := p.Sprintf(fmt.Sprintf("%%.%df", o.Scale), math.Abs(f))
	return NewDecodedCellData(raw, o.decorate(f < 0, f > 0, digits))
}

// decorate adds the sign and the currency or percent symbol to digits.
func (o *NumberTypeOption) decorate(negative, positive bool, digits string) string {
	var sign string
	switch {
	case negative:
		sign = "-"
	case positive && o.SignPositive:
		sign = "+"
	}
	if o.format() == NumberFormatPercent {
		return sign + digits + "%"
	}
	return sign + o.symbol() + digits
}

// ApplyChangeset parses the changeset as a number and stores it in plain
// notation. The currency symbol, percent sign and grouping commas are
// accepted and dropped. An empty changeset clears the cell. Input that is
// not a number, or not an integer for an integer-only field, fails with
// types.ErrInvalidNumber.
func (o *NumberTypeOption) ApplyChangeset(changeset Changeset, _ *types.CellMeta) (string, error) {
	s := o.stripSymbol(changeset.String())
	if s == "" {
		return "", nil
	}
	if o.integerOnly() {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not an integer", types.ErrInvalidNumber, changeset.String())
		}
		return strconv.FormatInt(n, 10), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidNumber, changeset.String())
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
