package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/logcheck/internal/geo"
	"github.com/tinytelemetry/logcheck/internal/logparse"
	"github.com/tinytelemetry/logcheck/internal/model"
	"github.com/tinytelemetry/logcheck/internal/report"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stubDatabase replaces the MaxMind database with a fixed table.
func stubDatabase(t *testing.T, locations geo.Static) {
	t.Helper()

	orig := openDatabase
	openDatabase = func(string) (geo.Locator, io.Closer, error) {
		return locations, nopCloser{}, nil
	}
	t.Cleanup(func() { openDatabase = orig })
}

// twoFileLogs writes the rotated pair used across command tests and returns
// the glob matching it.
func twoFileLogs(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"access.log.1": `1.2.3.4 - - [02/Jan/2024:10:00:00 +0000] "GET / HTTP/1.1" 200 512` + "\n",
		"access.log":   `5.6.7.8 - - [03/Jan/2024:11:00:00 +0000] "GET /a HTTP/1.1" 404 0` + "\n" + extra,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, "access*.log*")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetLogcheckEnv(t)
	args = append([]string{"--config", writeTempConfig(t, "# empty")}, args...)

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRank_TwoFileScenario(t *testing.T) {
	stubDatabase(t, geo.Static{"1.2.3.4": "AU", "5.6.7.8": "DE"})

	out, _, err := execute(t, "rank", "--by", "ip", "--format", "json", "--logfiles-folder", twoFileLogs(t, ""))
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var got report.RankingReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := report.RankingReport{
		Field:   model.FieldIP,
		Total:   2,
		Entries: []model.RankingEntry{{Key: "1.2.3.4", Count: 1}, {Key: "5.6.7.8", Count: 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_Top(t *testing.T) {
	stubDatabase(t, geo.Static{"1.2.3.4": "AU", "5.6.7.8": "DE"})
	extra := `5.6.7.8 - - [03/Jan/2024:12:00:00 +0000] "GET /b HTTP/1.1" 200 1` + "\n"

	out, _, err := execute(t, "rank", "--top", "1", "--logfiles-folder", twoFileLogs(t, extra))
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	want := "LOCATION  COUNT\nDE        2\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDaily_TwoFileScenario(t *testing.T) {
	stubDatabase(t, geo.Static{"1.2.3.4": "AU", "5.6.7.8": "DE"})

	out, _, err := execute(t, "daily", "--format", "json", "--logfiles-folder", twoFileLogs(t, ""))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	var got model.DailyBreakdown
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := model.DailyBreakdown{
		Field: model.FieldLocation,
		Days:  []string{"02/Jan/2024", "03/Jan/2024"},
		Keys:  []string{"AU", "DE"},
		Counts: map[string]map[string]int{
			"02/Jan/2024": {"AU": 1, "DE": 0},
			"03/Jan/2024": {"AU": 0, "DE": 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("daily mismatch (-want +got):\n%s", diff)
	}
}

func TestDaily_RejectsDay(t *testing.T) {
	stubDatabase(t, geo.Static{})

	_, _, err := execute(t, "daily", "--by", "day", "--logfiles-folder", twoFileLogs(t, ""))
	if err == nil || !strings.Contains(err.Error(), "unsupported field") {
		t.Fatalf("err = %v, want unsupported field", err)
	}
}

func TestUnlocatedAndNetworkLabels(t *testing.T) {
	stubDatabase(t, geo.Static{"5.6.7.8": "DE"})
	resetLogcheckEnv(t)

	cfgPath := writeTempConfig(t, `
network-labels:
  - cidr: 1.2.0.0/16
    label: lab
`)
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"--config", cfgPath, "rank", "--query", ".entries[].key", "--logfiles-folder", twoFileLogs(t, "9.9.9.9 - - [03/Jan/2024:13:00:00 +0000] \"GET /\" 200 1\n")})
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("rank: %v", err)
	}
	want := "lab\nDE\nunlocated\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_ReportsSkippedLines(t *testing.T) {
	stubDatabase(t, geo.Static{"1.2.3.4": "AU", "5.6.7.8": "DE"})

	out, stderr, err := execute(t, "summary", "--format", "json", "--logfiles-folder", twoFileLogs(t, "no address here\n"))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var got report.SummaryReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Summary.Files != 2 || got.Summary.Records != 2 || got.Summary.Skipped != 1 {
		t.Fatalf("summary = %+v", got.Summary)
	}
	if len(got.Skipped) != 1 || got.Skipped[0].Line != 2 || !strings.Contains(got.Skipped[0].Reason, "no IPv4 address") {
		t.Fatalf("skipped = %+v", got.Skipped)
	}
	if !strings.Contains(stderr, "skipping line") {
		t.Fatalf("stderr should warn about the skipped line:\n%s", stderr)
	}
}

func TestMalformedAbort(t *testing.T) {
	stubDatabase(t, geo.Static{})

	_, _, err := execute(t, "rank", "--malformed-lines", "abort", "--logfiles-folder", twoFileLogs(t, "no address here\n"))
	if !errors.Is(err, logparse.ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine", err)
	}
	if !strings.Contains(err.Error(), "access.log:2") {
		t.Fatalf("err = %v, want file and line", err)
	}
}

func TestMissingDatabaseIsFatal(t *testing.T) {
	_, _, err := execute(t, "rank",
		"--geoip-database-location", filepath.Join(t.TempDir(), "missing.mmdb"),
		"--logfiles-folder", twoFileLogs(t, ""))
	if !errors.Is(err, geo.ErrDatabaseUnavailable) {
		t.Fatalf("err = %v, want ErrDatabaseUnavailable", err)
	}
}

func TestNoMatchingFiles(t *testing.T) {
	stubDatabase(t, geo.Static{})

	out, _, err := execute(t, "rank", "--format", "json", "--logfiles-folder", filepath.Join(t.TempDir(), "access*.log*"))
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var got report.RankingReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Total != 0 || len(got.Entries) != 0 {
		t.Fatalf("ranking = %+v, want empty", got)
	}
}

func TestFiles_DoesNotNeedDatabase(t *testing.T) {
	out, _, err := execute(t, "files", "--geoip-database-location", "/nonexistent.mmdb", "--logfiles-folder", twoFileLogs(t, ""))
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasSuffix(lines[1], "access.log") || !strings.HasSuffix(lines[2], "access.log.1") {
		t.Fatalf("files output:\n%s", out)
	}
}

func TestChart(t *testing.T) {
	stubDatabase(t, geo.Static{"1.2.3.4": "AU", "5.6.7.8": "DE"})
	logs := twoFileLogs(t, "")

	out, _, err := execute(t, "chart", "rank", "--width", "60", "--height", "8", "--logfiles-folder", logs)
	if err != nil {
		t.Fatalf("chart rank: %v", err)
	}
	for _, want := range []string{"AU", "DE"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ranking chart missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "chart", "daily", "--by", "ip", "--logfiles-folder", logs)
	if err != nil {
		t.Fatalf("chart daily: %v", err)
	}
	if !strings.Contains(out, "02/Jan/2024 .. 03/Jan/2024") || !strings.Contains(out, "5.6.7.8") {
		t.Fatalf("daily chart missing legend:\n%s", out)
	}

	if _, _, err := execute(t, "chart", "pie", "--logfiles-folder", logs); err == nil {
		t.Fatal("chart pie should be rejected")
	}
}

func TestRank_UnknownField(t *testing.T) {
	stubDatabase(t, geo.Static{})

	_, _, err := execute(t, "rank", "--by", "referrer", "--logfiles-folder", twoFileLogs(t, ""))
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("err = %v, want unknown field", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "Version:    dev") {
		t.Fatalf("version output:\n%s", out)
	}
}
