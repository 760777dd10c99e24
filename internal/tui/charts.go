package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/logcheck/internal/model"
)

const (
	minChartWidth  = 20
	minChartHeight = 4
	maxBarWidth    = 4
	barGap         = 1
	legendGap      = 2
	maxLegendKey   = 24
	otherKey       = "other"
)

func noData() string {
	return helpStyle.Render("No data available")
}

// RankingChart draws the highest entries of ranking as bars in ascending
// order, numbered by rank, with a legend mapping ranks to keys and counts.
func RankingChart(ranking model.Ranking, width, height int) string {
	if len(ranking) == 0 {
		return noData()
	}
	height = max(height, minChartHeight)

	entries := ranking.Top(min(model.DefaultRankingChartBars, height))
	legend := rankingLegend(entries)
	chartWidth := max(width-lipgloss.Width(legend)-legendGap, minChartWidth)
	if fit := barsThatFit(chartWidth); len(entries) > fit {
		entries = entries[len(entries)-fit:]
		legend = rankingLegend(entries)
	}

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(barGap),
		barchart.WithBarWidth(barWidthFor(chartWidth, len(entries))),
	)
	for i, e := range entries {
		rank := len(entries) - i
		bc.Push(barchart.BarData{
			Label: fmt.Sprintf("%d", rank),
			Values: []barchart.BarValue{
				{Name: e.Key, Value: float64(e.Count), Style: barStyle(colorFor(rank - 1))},
			},
		})
	}
	bc.Draw()

	return lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), strings.Repeat(" ", legendGap), legend)
}

// rankingLegend lists entries highest first.
func rankingLegend(entries model.Ranking) string {
	keyWidth, countWidth := 0, 0
	for _, e := range entries {
		keyWidth = max(keyWidth, len(truncateKey(e.Key)))
		countWidth = max(countWidth, len(fmt.Sprint(e.Count)))
	}
	lines := make([]string, 0, len(entries))
	for rank := 1; rank <= len(entries); rank++ {
		e := entries[len(entries)-rank]
		swatch := lipgloss.NewStyle().Foreground(colorFor(rank - 1)).Render("■")
		text := fmt.Sprintf(" %2d %-*s %*d", rank, keyWidth, truncateKey(e.Key), countWidth, e.Count)
		lines = append(lines, swatch+text)
	}
	return strings.Join(lines, "\n")
}

// DailyChart draws one stacked bar per day with a segment per key. Only the
// maxKeys keys with the highest totals get their own colour; the rest are
// folded into an "other" segment. When the days do not fit the width the most
// recently seen days are kept.
func DailyChart(daily *model.DailyBreakdown, width, height, maxKeys int) string {
	if daily == nil || len(daily.Days) == 0 {
		return noData()
	}
	height = max(height, minChartHeight)
	if maxKeys <= 0 {
		maxKeys = model.DefaultDailyChartKeys
	}
	// One legend line per shown key, plus the "other" line and the day range.
	maxKeys = max(1, min(maxKeys, height-2))

	shown, folded := foldKeys(daily, maxKeys)
	legend := dailyLegend(daily, shown, folded)
	chartWidth := max(width-lipgloss.Width(legend)-legendGap, minChartWidth)

	days := daily.Days
	if fit := barsThatFit(chartWidth); len(days) > fit {
		days = days[len(days)-fit:]
	}

	styles := make(map[string]lipgloss.Style, len(shown)+1)
	for i, k := range shown {
		styles[k] = barStyle(colorFor(i))
	}
	styles[otherKey] = barStyle(ColorOther)

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(barGap),
		barchart.WithBarWidth(barWidthFor(chartWidth, len(days))),
	)
	for _, day := range days {
		row := daily.Counts[day]
		var values []barchart.BarValue
		for _, k := range shown {
			if n := row[k]; n > 0 {
				values = append(values, barchart.BarValue{Name: k, Value: float64(n), Style: styles[k]})
			}
		}
		other := 0
		for _, k := range folded {
			other += row[k]
		}
		if other > 0 {
			values = append(values, barchart.BarValue{Name: otherKey, Value: float64(other), Style: styles[otherKey]})
		}
		if len(values) == 0 {
			values = append(values, barchart.BarValue{Name: otherKey, Value: 0, Style: styles[otherKey]})
		}
		label, _, _ := strings.Cut(day, "/")
		bc.Push(barchart.BarData{Label: label, Values: values})
	}
	bc.Draw()

	return lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), strings.Repeat(" ", legendGap), legend)
}

// foldKeys splits the breakdown keys into the maxKeys keys with the highest
// totals, kept in breakdown order, and the remaining keys.
func foldKeys(daily *model.DailyBreakdown, maxKeys int) (shown, folded []string) {
	if len(daily.Keys) <= maxKeys {
		return slices.Clone(daily.Keys), nil
	}
	totals := make(map[string]int, len(daily.Keys))
	for _, k := range daily.Keys {
		totals[k] = daily.Total(k)
	}
	byTotal := slices.Clone(daily.Keys)
	slices.SortStableFunc(byTotal, func(a, b string) int {
		return totals[b] - totals[a]
	})
	keep := make(map[string]bool, maxKeys)
	for _, k := range byTotal[:maxKeys] {
		keep[k] = true
	}
	for _, k := range daily.Keys {
		if keep[k] {
			shown = append(shown, k)
		} else {
			folded = append(folded, k)
		}
	}
	return shown, folded
}

func dailyLegend(daily *model.DailyBreakdown, shown, folded []string) string {
	type item struct {
		key   string
		total int
		color lipgloss.Color
	}
	items := make([]item, 0, len(shown)+1)
	for i, k := range shown {
		items = append(items, item{key: k, total: daily.Total(k), color: colorFor(i)})
	}
	if len(folded) > 0 {
		other := 0
		for _, k := range folded {
			other += daily.Total(k)
		}
		items = append(items, item{key: fmt.Sprintf("%s (%d)", otherKey, len(folded)), total: other, color: ColorOther})
	}

	keyWidth, countWidth := 0, 0
	for _, it := range items {
		keyWidth = max(keyWidth, len(truncateKey(it.key)))
		countWidth = max(countWidth, len(fmt.Sprint(it.total)))
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, helpStyle.Render(dayRange(daily.Days)))
	for _, it := range items {
		swatch := lipgloss.NewStyle().Foreground(it.color).Render("■")
		lines = append(lines, swatch+fmt.Sprintf(" %-*s %*d", keyWidth, truncateKey(it.key), countWidth, it.total))
	}
	return strings.Join(lines, "\n")
}

func dayRange(days []string) string {
	if len(days) == 1 {
		return days[0]
	}
	return days[0] + " .. " + days[len(days)-1]
}

// barsThatFit returns how many one-cell bars fit in width.
func barsThatFit(width int) int {
	return max(1, (width+barGap)/(1+barGap))
}

func barWidthFor(width, bars int) int {
	if bars <= 0 {
		return 1
	}
	return max(1, min(maxBarWidth, (width+barGap)/bars-barGap))
}

func truncateKey(key string) string {
	if len(key) <= maxLegendKey {
		return key
	}
	return key[:maxLegendKey-1] + "~"
}
