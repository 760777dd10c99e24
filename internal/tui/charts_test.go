package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/logcheck/internal/model"
)

func longRanking(n int) model.Ranking {
	r := make(model.Ranking, n)
	for i := range r {
		r[i] = model.RankingEntry{Key: fmt.Sprintf("key-%02d", i), Count: i + 1}
	}
	return r
}

func testBreakdown() *model.DailyBreakdown {
	return &model.DailyBreakdown{
		Field: model.FieldLocation,
		Days:  []string{"02/Jan/2024", "03/Jan/2024"},
		Keys:  []string{"A", "B", "C"},
		Counts: map[string]map[string]int{
			"02/Jan/2024": {"A": 2, "B": 1, "C": 0},
			"03/Jan/2024": {"A": 3, "B": 0, "C": 3},
		},
	}
}

func TestRankingChart_Empty(t *testing.T) {
	t.Parallel()

	if got := RankingChart(nil, 80, 10); !strings.Contains(got, "No data available") {
		t.Fatalf("RankingChart(nil) = %q, want placeholder", got)
	}
}

func TestRankingChart_LegendShowsHighestEntries(t *testing.T) {
	t.Parallel()

	out := RankingChart(longRanking(30), 120, 10)
	for _, want := range []string{"key-29", "key-20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chart missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "key-19") {
		t.Fatalf("chart should only show the 10 highest entries:\n%s", out)
	}
}

func TestRankingChart_NarrowWidthDropsLowestBars(t *testing.T) {
	t.Parallel()

	// A 20 column chart fits 10 one-cell bars with a gap between them.
	out := RankingChart(longRanking(30), 0, 20)
	if !strings.Contains(out, "key-20") || strings.Contains(out, "key-19") {
		t.Fatalf("narrow chart should keep key-20..key-29:\n%s", out)
	}
}

func TestRankingLegend_HighestFirst(t *testing.T) {
	t.Parallel()

	legend := rankingLegend(model.Ranking{{Key: "low", Count: 1}, {Key: "high", Count: 9}})
	lines := strings.Split(legend, "\n")
	if len(lines) != 2 {
		t.Fatalf("legend has %d lines, want 2:\n%s", len(lines), legend)
	}
	if !strings.Contains(lines[0], " 1 high") || !strings.Contains(lines[1], " 2 low") {
		t.Fatalf("legend order wrong:\n%s", legend)
	}
}

func TestFoldKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		maxKeys    int
		wantShown  []string
		wantFolded []string
	}{
		{name: "all fit", maxKeys: 3, wantShown: []string{"A", "B", "C"}},
		{name: "fold lowest", maxKeys: 2, wantShown: []string{"A", "C"}, wantFolded: []string{"B"}},
		{name: "single", maxKeys: 1, wantShown: []string{"A"}, wantFolded: []string{"B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			shown, folded := foldKeys(testBreakdown(), tt.maxKeys)
			if diff := cmp.Diff(tt.wantShown, shown); diff != "" {
				t.Fatalf("shown mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantFolded, folded); diff != "" {
				t.Fatalf("folded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFoldKeys_TiesKeepBreakdownOrder(t *testing.T) {
	t.Parallel()

	d := &model.DailyBreakdown{
		Days:   []string{"01/Jan/2024"},
		Keys:   []string{"X", "Y", "Z"},
		Counts: map[string]map[string]int{"01/Jan/2024": {"X": 1, "Y": 1, "Z": 1}},
	}
	shown, folded := foldKeys(d, 2)
	if diff := cmp.Diff([]string{"X", "Y"}, shown); diff != "" {
		t.Fatalf("shown mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Z"}, folded); diff != "" {
		t.Fatalf("folded mismatch (-want +got):\n%s", diff)
	}
}

func TestDailyChart(t *testing.T) {
	t.Parallel()

	out := DailyChart(testBreakdown(), 100, 8, 2)
	for _, want := range []string{"02/Jan/2024 .. 03/Jan/2024", "A", "C", "other (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestDailyChart_Empty(t *testing.T) {
	t.Parallel()

	for _, d := range []*model.DailyBreakdown{nil, {Days: []string{}, Keys: []string{}}} {
		if got := DailyChart(d, 80, 10, 0); !strings.Contains(got, "No data available") {
			t.Fatalf("DailyChart(%v) = %q, want placeholder", d, got)
		}
	}
}

func TestTruncateKey(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 40)
	if got := truncateKey(long); len(got) != maxLegendKey || !strings.HasSuffix(got, "~") {
		t.Fatalf("truncateKey = %q", got)
	}
	if got := truncateKey("US"); got != "US" {
		t.Fatalf("truncateKey(US) = %q", got)
	}
}
