package models

import (
	"encoding/json"
	"time"
)

const (
	// LocalTimeLayout is the zone-less wire form of timestamps.
	LocalTimeLayout = "2006-01-02T15:04:05.999999999"
	// DisplayLayout is the short form shown to users.
	DisplayLayout = "2006-01-02 15:04"
)

// parseLayouts are tried in order; fractional seconds are accepted by the
// first layout even when absent.
var parseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// LocalTime is a wall-clock timestamp in the process's local zone,
// serialized without a zone offset.
type LocalTime struct {
	time.Time
}

// Now returns the current local time without a monotonic reading.
func Now() LocalTime {
	return NewLocalTime(time.Now())
}

// NewLocalTime converts t to the local zone.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.In(time.Local).Round(0)}
}

// ParseLocalTime parses a zone-less date-time in the local zone.
func ParseLocalTime(s string) (LocalTime, error) {
	var lastErr error
	for _, layout := range parseLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return LocalTime{Time: t}, nil
		}
		lastErr = err
	}
	return LocalTime{}, lastErr
}

// String returns the wire form.
func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LocalTimeLayout)
}

// Display returns the short human form, or "" for a zero time.
func (t LocalTime) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// Equal reports whether both timestamps denote the same instant.
func (t LocalTime) Equal(o LocalTime) bool {
	return t.Time.Equal(o.Time)
}

// MarshalJSON encodes the wire form; a zero time encodes as null.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(LocalTimeLayout))
}

// UnmarshalJSON decodes the wire form. Unparsable input yields a zero time
// rather than an error.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		*t = LocalTime{}
		return nil
	}
	*t = parsed
	return nil
}
