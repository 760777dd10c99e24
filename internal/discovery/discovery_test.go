package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/logcheck/internal/model"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func baseNames(set model.FileSet) []string {
	out := make([]string, len(set))
	for i, f := range set {
		out[i] = filepath.Base(f.Path)
	}
	return out
}

func TestParseRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want model.RotationIndex
	}{
		{"access.log", model.RotationIndex{}},
		{"access.log.0", model.Rotation(0)},
		{"access.log.1", model.Rotation(1)},
		{"access.log.12", model.Rotation(12)},
		{"access.log.3.gz", model.Rotation(3)},
		{"access.log.gz", model.RotationIndex{}},
		{"access.log.-1", model.RotationIndex{}},
		{"access.log.", model.RotationIndex{}},
		{"access", model.RotationIndex{}},
		{"access.log.99999999999", model.Rotation(99999999999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRotation(tt.name); got != tt.want {
				t.Errorf("ParseRotation(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDiscover_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "access.log.2", "access.log", "access.log.10", "access.log.1", "access.log.3.gz")

	set, err := Discover(filepath.Join(dir, "access*.log*"), Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"access.log", "access.log.1", "access.log.2", "access.log.3.gz", "access.log.10"}
	if diff := cmp.Diff(want, baseNames(set)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	oldest := baseNames(model.FileSet(set.Oldest()))
	wantOldest := []string{"access.log.10", "access.log.3.gz", "access.log.2", "access.log.1", "access.log"}
	if diff := cmp.Diff(wantOldest, oldest); diff != "" {
		t.Fatalf("reading order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_SparseRotationIndexes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "access.log.500", "access.log.7")

	set, err := Discover(filepath.Join(dir, "access.log*"), Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := len(set); got != 2 {
		t.Fatalf("len(set) = %d, want 2 (no placeholder slots)", got)
	}
	if diff := cmp.Diff([]string{"access.log.7", "access.log.500"}, baseNames(set)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_NoMatches(t *testing.T) {
	t.Parallel()

	set, err := Discover(filepath.Join(t.TempDir(), "access*.log*"), Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("len(set) = %d, want 0", len(set))
	}
	if len(set.Oldest()) != 0 {
		t.Fatal("Oldest() of empty set should be empty")
	}
}

func TestDiscover_BadPattern(t *testing.T) {
	t.Parallel()

	if _, err := Discover("[", Options{}); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestDiscover_SkipsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "access.log")
	if err := os.Mkdir(filepath.Join(dir, "access.log.d"), 0o755); err != nil {
		t.Fatal(err)
	}

	set, err := Discover(filepath.Join(dir, "access.log*"), Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"access.log"}, baseNames(set)); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_DuplicatesKeptUnderWarn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "access.log", "other.log", "access.log.1")

	set, err := Discover(filepath.Join(dir, "*.log*"), Options{Duplicates: DuplicateWarn})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Both unsuffixed files survive; the lexically smaller one is read first.
	want := []string{"other.log", "access.log", "access.log.1"}
	if diff := cmp.Diff(want, baseNames(set)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_UnsuffixedNewerThanZero(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "access.log.0", "access.log")

	set, err := Discover(filepath.Join(dir, "access.log*"), Options{Duplicates: DuplicateReject})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff([]string{"access.log", "access.log.0"}, baseNames(set)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_DuplicatesRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.log.1", "b.log.1")

	_, err := Discover(filepath.Join(dir, "*.log.*"), Options{Duplicates: DuplicateReject})
	if !errors.Is(err, ErrDuplicateRotation) {
		t.Fatalf("err = %v, want ErrDuplicateRotation", err)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]DuplicatePolicy{"": DuplicateWarn, "WARN": DuplicateWarn, "reject": DuplicateReject} {
		got, err := ParseDuplicatePolicy(in)
		if err != nil {
			t.Fatalf("ParseDuplicatePolicy(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDuplicatePolicy(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseDuplicatePolicy("overwrite"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
