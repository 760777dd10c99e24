package model

import (
	"fmt"
	"strings"
)

// LogRecord is one parsed access-log line.
type LogRecord struct {
	IP        string `json:"ip" yaml:"ip"`
	Timestamp string `json:"timestamp" yaml:"timestamp"` // DD/Mon/YYYY:HH:MM:SS
	Location  string `json:"location" yaml:"location"`   // country code, network label or Unlocated
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Line      int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Day returns the date portion (DD/Mon/YYYY) of the record timestamp.
func (r LogRecord) Day() string {
	day, _, _ := strings.Cut(r.Timestamp, ":")
	return day
}

// Value returns the record value used as a grouping key for field.
func (r LogRecord) Value(field Field) string {
	switch field {
	case FieldIP:
		return r.IP
	case FieldDay:
		return r.Day()
	default:
		return r.Location
	}
}

// Field names a LogRecord attribute records can be grouped by.
type Field string

const (
	FieldLocation Field = "location"
	FieldIP       Field = "ip"
	FieldDay      Field = "day"
)

// ParseField converts a user supplied name into a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldLocation, FieldIP, FieldDay:
		return f, nil
	case "country":
		return FieldLocation, nil
	case "date":
		return FieldDay, nil
	default:
		return "", fmt.Errorf("unknown field %q (want location, ip or day)", s)
	}
}

// RankingEntry pairs a field value with the number of records holding it.
type RankingEntry struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Ranking is a list of entries in ascending count order.
type Ranking []RankingEntry

// Total returns the sum of all entry counts.
func (r Ranking) Total() int {
	total := 0
	for _, e := range r {
		total += e.Count
	}
	return total
}

// Top returns the n entries with the highest counts, still in ascending order.
// A non-positive n returns the whole ranking.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[len(r)-n:]
}

// DailyBreakdown holds per-day record counts for every key of a field's universe.
type DailyBreakdown struct {
	Field  Field                     `json:"field" yaml:"field"`
	Days   []string                  `json:"days" yaml:"days"`
	Keys   []string                  `json:"keys" yaml:"keys"`
	Counts map[string]map[string]int `json:"counts" yaml:"counts"`
}

// Series returns the count of key for each day, aligned with Days.
func (d *DailyBreakdown) Series(key string) []int {
	out := make([]int, len(d.Days))
	for i, day := range d.Days {
		out[i] = d.Counts[day][key]
	}
	return out
}

// Row returns the counts of one day, aligned with Keys.
func (d *DailyBreakdown) Row(day string) []int {
	out := make([]int, len(d.Keys))
	row := d.Counts[day]
	for i, key := range d.Keys {
		out[i] = row[key]
	}
	return out
}

// Total returns the number of records carrying key across all days.
func (d *DailyBreakdown) Total(key string) int {
	total := 0
	for _, day := range d.Days {
		total += d.Counts[day][key]
	}
	return total
}

// MalformedLine is a log line that had no IPv4 address or no timestamp.
type MalformedLine struct {
	Source string `json:"source" yaml:"source"`
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary describes an extracted corpus.
type Summary struct {
	Files       int    `json:"files" yaml:"files"`
	Records     int    `json:"records" yaml:"records"`
	Skipped     int    `json:"skipped" yaml:"skipped"`
	DistinctIPs int    `json:"distinct_ips" yaml:"distinct_ips"`
	Locations   int    `json:"locations" yaml:"locations"`
	Unlocated   int    `json:"unlocated" yaml:"unlocated"`
	Days        int    `json:"days" yaml:"days"`
	FirstDay    string `json:"first_day,omitempty" yaml:"first_day,omitempty"`
	LastDay     string `json:"last_day,omitempty" yaml:"last_day,omitempty"`
	TopLocation string `json:"top_location,omitempty" yaml:"top_location,omitempty"`
	TopIP       string `json:"top_ip,omitempty" yaml:"top_ip,omitempty"`
}
