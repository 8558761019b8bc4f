package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Separator joins the date and time parts of a deadline.
	Separator = "T"

	// DefaultTime is used when a date is set before any time.
	DefaultTime = "00:00"

	// DateLayout is the date part format.
	DateLayout = "2006-01-02"

	// TimeLayout is the time part format.
	TimeLayout = "15:04"

	// Layout is the canonical deadline format.
	Layout = DateLayout + Separator + TimeLayout
)

// Layouts accepted when reading a deadline back from the store. Some backends
// serialise a timezone-less timestamp with seconds; time.Parse also accepts a
// trailing fractional second after them.
var parseLayouts = []string{
	Layout,
	"2006-01-02T15:04:05",
}

// Composer merges separately edited date and time fragments into one deadline
// string. The zero value uses time.Now for "today".
type Composer struct {
	Now func() time.Time
}

func (c Composer) today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().Format(DateLayout)
}

// SetDatePart replaces the date part of current, keeping its time part or
// defaulting it to midnight. An empty date clears the deadline.
func (c Composer) SetDatePart(current, date string) string {
	if date == "" {
		return ""
	}
	tm := TimePart(current)
	if tm == "" {
		tm = DefaultTime
	}
	return date + Separator + tm
}

// SetTimePart replaces the time part of current, keeping its date part or
// defaulting it to today. An empty time clears the deadline.
func (c Composer) SetTimePart(current, tm string) string {
	if tm == "" {
		return ""
	}
	date := DatePart(current)
	if date == "" {
		date = c.today()
	}
	return date + Separator + tm
}

// DatePart returns the date fragment of s, or "" if absent or malformed.
func DatePart(s string) string {
	date, _, _ := strings.Cut(s, Separator)
	if !ValidDatePart(date) {
		return ""
	}
	return date
}

// TimePart returns the time fragment of s, or "" if absent or malformed.
func TimePart(s string) string {
	_, tm, found := strings.Cut(s, Separator)
	if !found || !ValidTimePart(tm) {
		return ""
	}
	return tm
}

// ValidDatePart reports whether s is a YYYY-MM-DD date.
func ValidDatePart(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTimePart reports whether s is an HH:mm time.
func ValidTimePart(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// DeadlineValue converts a composed string into the entity field. An empty
// string means no deadline.
func DeadlineValue(combined string) *string {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return nil
	}
	return &combined
}

// ParseDeadline reads a deadline in loc. Values without an offset are taken
// as wall-clock time in loc; values with an offset are converted to loc.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline: %q", s)
}

// NormalizeDeadline parses s and returns it in the canonical layout.
func NormalizeDeadline(s string) (string, error) {
	t, err := ParseDeadline(s, time.Local)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}
