package format

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // field ops run on Pacific time; keep the zone available without host tzdata
)

// Field operations are in the Pacific timezone. All displayed times and
// urgency buckets are computed against it so cross-timezone viewers see
// consistent coloring.
var Pacific = mustLoadPacific()

func mustLoadPacific() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(fmt.Sprintf("load America/Los_Angeles: %v", err))
	}

	return loc
}

// Placeholder is rendered wherever a date is missing or unparseable.
const Placeholder = "—"

// Unknown is the fallback for missing address segments.
const Unknown = "Unknown"

// timeLayouts are tried in order when parsing backend timestamps. The backend
// is not consistent about formats, so parsing is lenient and never fatal.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTime parses a backend timestamp string, reporting ok=false for empty
// or malformed input instead of an error.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, Pacific); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDateTime renders a backend timestamp for display in Pacific time,
// or the placeholder when the value is missing or malformed.
func FormatDateTime(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return Placeholder
	}

	return t.In(Pacific).Format("01/02/2006 3:04 PM")
}

// Elapsed renders the time since the given timestamp as whole minutes under
// an hour, whole hours after that. Malformed input renders the placeholder.
func Elapsed(s string, now time.Time) string {
	t, ok := ParseTime(s)
	if !ok {
		return Placeholder
	}

	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh", int(d.Hours()))
}

// Color is an urgency color code attached to classified rows.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// ElapsedColor buckets urgency by age: green under 24h, orange under 48h,
// red after that. Missing dates read as green rather than screaming red.
func ElapsedColor(s string, now time.Time) Color {
	t, ok := ParseTime(s)
	if !ok {
		return ColorGreen
	}

	switch d := now.Sub(t); {
	case d < 24*time.Hour:
		return ColorGreen
	case d < 48*time.Hour:
		return ColorOrange
	default:
		return ColorRed
	}
}

// TechInitial returns the uppercase first letter of a technician name, or
// "?" when the name is blank.
func TechInitial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}

	return strings.ToUpper(string([]rune(name)[0]))
}

// Address is a display split of the free-text full_address field.
type Address struct {
	Street string
	City   string
	Region string
}

// SplitAddress splits a free-text address on comma boundaries. Segments that
// are missing or blank fall back to Unknown; the classifier never rejects a
// record over a bad address.
func SplitAddress(full string) Address {
	addr := Address{Street: Unknown, City: Unknown, Region: Unknown}

	parts := strings.Split(full, ",")
	if s := strings.TrimSpace(parts[0]); s != "" {
		addr.Street = s
	}

	if len(parts) > 1 {
		if s := strings.TrimSpace(parts[1]); s != "" {
			addr.City = s
		}
	}

	if len(parts) > 2 {
		if s := strings.TrimSpace(strings.Join(parts[2:], ",")); s != "" {
			addr.Region = s
		}
	}

	return addr
}
