package timeline

import "time"

// Granularity is the part of an instant a tick label shows.
type Granularity int

const (
	// DateOnly labels show month and day.
	DateOnly Granularity = iota
	// TimeOnly labels show the time of day.
	TimeOnly
	// DateTime labels show both. Plan never emits it; it labels single
	// instants such as an instance's last check.
	DateTime
)

// String returns the granularity name used in structured output.
func (g Granularity) String() string {
	switch g {
	case DateOnly:
		return "date"
	case TimeOnly:
		return "time"
	case DateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// LabelFormatter turns an instant into display text at the requested granularity.
// Implementations own locale and time zone handling; the planner only decides
// which instants and granularities to ask for.
type LabelFormatter interface {
	FormatLabel(t time.Time, g Granularity) string
}

// LayoutFormatter is a LabelFormatter backed by time.Format layouts.
//
// Fields:
//   - DateLayout: Layout for DateOnly labels
//   - TimeLayout: Layout for TimeOnly labels
//   - DateTimeLayout: Layout for DateTime labels
//   - Location: Zone labels are rendered in; nil keeps each instant's own zone
type LayoutFormatter struct {
	DateLayout     string
	TimeLayout     string
	DateTimeLayout string
	Location       *time.Location
}

// DefaultFormatter returns the layouts used by the dashboard: "Jan 2", "15:04" and "Jan 2 15:04".
func DefaultFormatter() LayoutFormatter {
	return LayoutFormatter{
		DateLayout:     "Jan 2",
		TimeLayout:     "15:04",
		DateTimeLayout: "Jan 2 15:04",
	}
}

// FormatLabel implements LabelFormatter.
func (f LayoutFormatter) FormatLabel(t time.Time, g Granularity) string {
	if f.Location != nil {
		t = t.In(f.Location)
	}

	switch g {
	case DateOnly:
		return t.Format(f.DateLayout)
	case TimeOnly:
		return t.Format(f.TimeLayout)
	default:
		return t.Format(f.DateTimeLayout)
	}
}
