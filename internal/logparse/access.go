// Package logparse extracts the client IP and timestamp from free-text access
// log lines.
package logparse

import (
	"errors"
	"regexp"

	"github.com/tinytelemetry/logcheck/internal/timestamp"
)

// IPv4Regex matches a dotted-quad IPv4-shaped token. Octet ranges are not
// validated; out-of-range addresses simply fail geolocation.
var IPv4Regex = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

var (
	// ErrMalformedLine wraps every per-line parse failure.
	ErrMalformedLine = errors.New("malformed log line")
	ErrNoIP          = errors.New("no IPv4 address")
	ErrNoTimestamp   = errors.New("no timestamp")
)

// Fields holds the values extracted from one line.
type Fields struct {
	IP        string
	Timestamp string
}

// Day returns the date portion of the timestamp.
func (f Fields) Day() string {
	return timestamp.Day(f.Timestamp)
}

// ParseLine extracts the first IPv4 address and the first timestamp of line.
// A line missing either returns an error matching ErrMalformedLine and the
// specific cause (ErrNoIP or ErrNoTimestamp).
func ParseLine(line string) (Fields, error) {
	ip := IPv4Regex.FindString(line)
	if ip == "" {
		return Fields{}, &ParseError{Cause: ErrNoIP}
	}
	ts := timestamp.FindInText(line)
	if !ts.Found {
		return Fields{}, &ParseError{Cause: ErrNoTimestamp}
	}
	return Fields{IP: ip, Timestamp: ts.Raw}, nil
}

// ParseError reports why a line could not be parsed.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return ErrMalformedLine.Error() + ": " + e.Cause.Error()
}

// Is lets errors.Is match both ErrMalformedLine and the cause.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedLine || target == e.Cause
}

func (e *ParseError) Unwrap() error { return e.Cause }
