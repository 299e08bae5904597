package atom

import (
	"strings"
	"time"
)

// DateTimeLayout is the wire rendering of date constructs: millisecond
// precision with a numeric offset.
const DateTimeLayout = "2006-01-02T15:04:05.000-07:00"

// FormatDateTime renders t in loc. A nil loc means UTC.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}

// ParseDateTime parses an RFC 3339 date-time with any fractional precision.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// RFC 3339 allows lowercase separators.
	s = strings.Replace(s, "t", "T", 1)
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return normalizeTime(t), nil
}

// normalizeTime drops everything the wire form cannot carry, so values
// survive a write/read cycle unchanged.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
