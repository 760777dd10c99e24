package model

// Corpus is the result of extracting records from a set of log files.
// Records are in reading order (oldest line first); Locations and IPs hold the
// distinct values seen, in first-encountered order.
type Corpus struct {
	Records   []LogRecord     `json:"records" yaml:"records"`
	Locations []string        `json:"locations" yaml:"locations"`
	IPs       []string        `json:"ips" yaml:"ips"`
	Skipped   []MalformedLine `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Universe returns the distinct values of field in first-encountered order.
// Day values are derived from the records since the corpus does not track them.
func (c *Corpus) Universe(field Field) []string {
	if c == nil {
		return nil
	}
	switch field {
	case FieldLocation:
		return c.Locations
	case FieldIP:
		return c.IPs
	}
	var days []string
	seen := make(map[string]struct{})
	for _, r := range c.Records {
		day := r.Value(field)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days
}
