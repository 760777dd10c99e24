// Package report renders rankings, daily breakdowns, file listings and
// summaries as text tables, JSON or YAML, optionally filtered through a jq
// expression.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/logcheck/internal/model"
)

// Format selects how a report is encoded.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat converts a user supplied name into a Format. The empty string
// selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q (want table, json or yaml)", ErrUnknownFormat, s)
	}
}

// Options controls report encoding.
type Options struct {
	Format Format
	// Query is a jq expression applied to the JSON form of the report.
	// Results replace the report in the output.
	Query string
}

// RankingReport is the encoded form of a ranking.
type RankingReport struct {
	Field   model.Field          `json:"field" yaml:"field"`
	Total   int                  `json:"total" yaml:"total"`
	Entries []model.RankingEntry `json:"entries" yaml:"entries"`
}

// FileEntry is one discovered log file. Rotation is nil for a file without a
// numeric suffix.
type FileEntry struct {
	Path     string  `json:"path" yaml:"path"`
	Rotation *uint64 `json:"rotation" yaml:"rotation"`
}

// SummaryReport is the encoded form of a corpus summary.
type SummaryReport struct {
	Summary model.Summary         `json:"summary" yaml:"summary"`
	Skipped []model.MalformedLine `json:"skipped" yaml:"skipped"`
}

// WriteRanking writes ranking, grouped by field, to w.
func WriteRanking(w io.Writer, field model.Field, ranking model.Ranking, opts Options) error {
	entries := []model.RankingEntry(ranking)
	if entries == nil {
		entries = []model.RankingEntry{}
	}
	rep := RankingReport{Field: field, Total: ranking.Total(), Entries: entries}
	return write(w, rep, opts, func(tp *tablePrinter) {
		tp.Header(string(field), "count")
		for _, e := range ranking {
			tp.Row(e.Key, strconv.Itoa(e.Count))
		}
	})
}

// WriteDaily writes a daily breakdown to w. The table form has one row per day
// and one column per key.
func WriteDaily(w io.Writer, daily *model.DailyBreakdown, opts Options) error {
	if daily == nil {
		daily = &model.DailyBreakdown{Days: []string{}, Keys: []string{}, Counts: map[string]map[string]int{}}
	}
	return write(w, daily, opts, func(tp *tablePrinter) {
		// Keys are data, not column names; keep their case.
		tp.Row(append([]string{"DAY"}, daily.Keys...)...)
		for _, day := range daily.Days {
			row := make([]string, 0, len(daily.Keys)+1)
			row = append(row, day)
			for _, n := range daily.Row(day) {
				row = append(row, strconv.Itoa(n))
			}
			tp.Row(row...)
		}
	})
}

// WriteFiles writes the discovery order of files to w, newest first.
func WriteFiles(w io.Writer, files model.FileSet, opts Options) error {
	entries := make([]FileEntry, 0, len(files))
	for _, f := range files {
		e := FileEntry{Path: f.Path}
		if f.Rotation.Valid {
			n := f.Rotation.N
			e.Rotation = &n
		}
		entries = append(entries, e)
	}
	return write(w, entries, opts, func(tp *tablePrinter) {
		tp.Header("rotation", "path")
		for _, f := range files {
			tp.Row(f.Rotation.String(), f.Path)
		}
	})
}

// WriteSummary writes a corpus summary and the lines skipped while reading it.
func WriteSummary(w io.Writer, summary model.Summary, skipped []model.MalformedLine, opts Options) error {
	if skipped == nil {
		skipped = []model.MalformedLine{}
	}
	rep := SummaryReport{Summary: summary, Skipped: skipped}
	return write(w, rep, opts, func(tp *tablePrinter) {
		tp.Header("metric", "value")
		tp.Row("files", strconv.Itoa(summary.Files))
		tp.Row("records", strconv.Itoa(summary.Records))
		tp.Row("skipped", strconv.Itoa(summary.Skipped))
		tp.Row("distinct ips", strconv.Itoa(summary.DistinctIPs))
		tp.Row("locations", strconv.Itoa(summary.Locations))
		tp.Row("unlocated", strconv.Itoa(summary.Unlocated))
		tp.Row("days", strconv.Itoa(summary.Days))
		tp.Row("first day", orDash(summary.FirstDay))
		tp.Row("last day", orDash(summary.LastDay))
		tp.Row("top location", orDash(summary.TopLocation))
		tp.Row("top ip", orDash(summary.TopIP))
		if len(skipped) == 0 {
			return
		}
		tp.Row("", "")
		tp.Header("source", "line", "reason")
		for _, m := range skipped {
			tp.Row(m.Source, strconv.Itoa(m.Line), m.Reason)
		}
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func write(w io.Writer, v any, opts Options, table func(*tablePrinter)) error {
	format := opts.Format
	if format == "" {
		format = FormatTable
	}
	if opts.Query != "" {
		results, err := Query(opts.Query, v)
		if err != nil {
			return err
		}
		return writeResults(w, results, format)
	}

	switch format {
	case FormatTable:
		tp := newTablePrinter(w)
		table(tp)
		if err := tp.Flush(); err != nil {
			return fmt.Errorf("report: write table: %w", err)
		}
		return nil
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// writeResults prints query results. Table output prints strings raw and
// everything else as compact JSON, one result per line.
func writeResults(w io.Writer, results []any, format Format) error {
	for _, r := range results {
		var err error
		switch format {
		case FormatYAML:
			err = writeYAML(w, r)
		case FormatJSON:
			err = writeJSON(w, r)
		default:
			err = writeRaw(w, r)
		}
		if err != nil {
			return fmt.Errorf("report: write query result: %w", err)
		}
	}
	return nil
}

func writeRaw(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return nil
}
