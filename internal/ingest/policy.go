package ingest

import (
	"fmt"
	"strings"
)

// MalformedPolicy decides what happens to lines without an IP or timestamp.
type MalformedPolicy string

const (
	// MalformedSkip logs a warning, records the line in Corpus.Skipped and
	// continues.
	MalformedSkip MalformedPolicy = "skip"
	// MalformedAbort stops extraction at the first malformed line.
	MalformedAbort MalformedPolicy = "abort"
)

// ParseMalformedPolicy validates a configured policy name. Empty means skip.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch p := MalformedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", MalformedSkip:
		return MalformedSkip, nil
	case MalformedAbort:
		return p, nil
	default:
		return "", fmt.Errorf("invalid malformed-lines policy %q (want skip or abort)", s)
	}
}
