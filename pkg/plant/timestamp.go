package plant

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// TimestampLayout is the canonical wall-clock format of the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Older collectors wrote these; they are still accepted on read.
var legacyTimestampLayouts = []string{
	"2006-01-02 15:04",
	"2006/01/02-15:04:05",
}

// ParseTimestamp reads a timestamp cell as wall-clock time in loc and returns the
// corresponding UTC instant.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(TimestampLayout, value, loc); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FormatTimestamp renders an instant in the canonical layout as wall-clock time in loc.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// LoadLocation resolves the reference zone, defaulting to UTC for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
