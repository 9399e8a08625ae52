package cell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/grid/pkg/types"
)

// DateFormat selects the date layout of a DateTime cell.
type DateFormat string

const (
	DateFormatLocal    DateFormat = "Local"
	DateFormatUS       DateFormat = "US"
	DateFormatISO      DateFormat = "ISO"
	DateFormatFriendly DateFormat = "Friendly"
)

// TimeFormat selects the time layout of a DateTime cell.
type TimeFormat string

const (
	TimeFormatTwelveHour     TimeFormat = "TwelveHour"
	TimeFormatTwentyFourHour TimeFormat = "TwentyFourHour"
)

func (f DateFormat) layout() string {
	switch f {
	case DateFormatLocal:
		return "2006/01/02"
	case DateFormatUS:
		return "01/02/2006"
	case DateFormatISO:
		return "2006-01-02"
	default:
		return "Jan 02,2006"
	}
}

func (f TimeFormat) layout() string {
	if f == TimeFormatTwelveHour {
		return "03:04 PM"
	}
	return "15:04"
}

// parseLayout accepts the hour with or without its leading zero.
func (f TimeFormat) parseLayout() string {
	if f == TimeFormatTwelveHour {
		return "3:04 PM"
	}
	return "15:04"
}

// DateCellChangeset edits a DateTime cell. Date is unix seconds; Time is a
// wall-clock time in the field's time format, applied to Date's day in UTC.
// A changeset without Date keeps the day already stored in the cell.
type DateCellChangeset struct {
	Date *string `json:"date,omitempty"`
	Time *string `json:"time,omitempty"`
}

// DateTypeOption handles DateTime cells. The payload is unix seconds.
type DateTypeOption struct {
	DateFormat  DateFormat `json:"date_format"`
	TimeFormat  TimeFormat `json:"time_format"`
	IncludeTime bool       `json:"include_time"`
}

// NewDateTypeOption returns the field's DateTime options or the defaults.
func NewDateTypeOption(field *types.FieldMeta) *DateTypeOption {
	return typeOptionOrDefault[DateTypeOption](field, types.FieldTypeDateTime)
}

// DecodeCellData renders the timestamp in UTC. A payload that is not unix
// seconds renders "".
func (o *DateTypeOption) DecodeCellData(data string, _ *types.FieldMeta) DecodedCellData {
	raw := strings.TrimSpace(unwrapCellData(data))
	if raw == "" {
		return DecodedCellData{}
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return NewDecodedCellData(raw, "")
	}
	return NewDecodedCellData(raw, o.render(time.Unix(ts, 0).UTC()))
}

func (o *DateTypeOption) render(t time.Time) string {
	s := t.Format(o.DateFormat.layout())
	if o.IncludeTime {
		s += " " + t.Format(o.TimeFormat.layout())
	}
	return s
}

// ApplyChangeset accepts unix seconds or a DateCellChangeset in JSON and
// stores unix seconds. Time is honoured only when IncludeTime is set.
// Anything unparseable fails with types.ErrInvalidDate.
func (o *DateTypeOption) ApplyChangeset(changeset Changeset, cell *types.CellMeta) (string, error) {
	s := strings.TrimSpace(changeset.String())
	if s == "" {
		return "", nil
	}

	var chg DateCellChangeset
	if strings.HasPrefix(s, "{") {
		if err := json.UnmarshalFromString(s, &chg); err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrInvalidDate, err)
		}
	} else {
		chg.Date = &s
	}

	date := cellPayload(cell)
	if chg.Date != nil {
		date = strings.TrimSpace(*chg.Date)
	}
	if date == "" {
		return "", fmt.Errorf("%w: no date given", types.ErrInvalidDate)
	}
	ts, err := strconv.ParseInt(date, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a timestamp", types.ErrInvalidDate, date)
	}

	if o.IncludeTime && chg.Time != nil && strings.TrimSpace(*chg.Time) != "" {
		clock, err := time.Parse(o.TimeFormat.parseLayout(), strings.TrimSpace(*chg.Time))
		if err != nil {
			return "", fmt.Errorf("%w: time %q: %v", types.ErrInvalidDate, *chg.Time, err)
		}
		day := time.Unix(ts, 0).UTC()
		ts = time.Date(day.Year(), day.Month(), day.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.UTC).Unix()
	}
	return strconv.FormatInt(ts, 10), nil
}
