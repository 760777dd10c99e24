// Package timestamp finds and interprets access-log timestamps of the form
// DD/Mon/YYYY:HH:MM:SS.
package timestamp

import (
	"regexp"
	"strings"
	"time"
)

// Layout is the time layout of an access-log timestamp.
const Layout = "02/Jan/2006:15:04:05"

// DayLayout is the time layout of the date portion of a timestamp.
const DayLayout = "02/Jan/2006"

// Regex matches an access-log timestamp anywhere in a line.
var Regex = regexp.MustCompile(`\d{2}/\w{3}/\d{4}:\d\d:\d\d:\d\d`)

// Result is the outcome of searching a line for a timestamp.
type Result struct {
	Raw   string    // matched text, as it appears in the line
	Time  time.Time // zero when Raw is not a valid calendar time
	Found bool
}

// FindInText returns the first timestamp-shaped token of text.
func FindInText(text string) Result {
	raw := Regex.FindString(text)
	if raw == "" {
		return Result{}
	}
	t, _ := Parse(raw)
	return Result{Raw: raw, Time: t, Found: true}
}

// Parse converts a raw timestamp into a UTC time.
func Parse(raw string) (time.Time, bool) {
	t, err := time.Parse(Layout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day returns the date portion of a raw timestamp (everything before the
// first ':').
func Day(raw string) string {
	day, _, _ := strings.Cut(raw, ":")
	return day
}
