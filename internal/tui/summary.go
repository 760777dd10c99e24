package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/logcheck/internal/aggregate"
	"github.com/tinytelemetry/logcheck/internal/model"
)

// SummaryPageID identifies the corpus summary page.
const SummaryPageID = "summary"

// maxSkippedShown bounds the malformed lines listed on the summary page.
const maxSkippedShown = 10

// SummaryPage shows corpus totals and the first malformed lines skipped.
type SummaryPage struct {
	keys    KeyMap
	summary model.Summary
	skipped []model.MalformedLine
}

// NewSummaryPage summarizes corpus read from files log files.
func NewSummaryPage(corpus *model.Corpus, files int) *SummaryPage {
	p := &SummaryPage{
		keys:    DefaultKeyMap(),
		summary: aggregate.Summarize(corpus, files),
	}
	if corpus != nil {
		p.skipped = corpus.Skipped
	}
	return p
}

func (p *SummaryPage) ID() string { return SummaryPageID }

func (p *SummaryPage) Init() tea.Cmd { return nil }

func (p *SummaryPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.keys.Quit, p.keys.ForceQuit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Summary, p.keys.Escape, p.keys.NextView, p.keys.PrevView):
			return nil, &PageNav{PageID: ViewerPageID}
		}
	}
	return nil, nil
}

func (p *SummaryPage) View(width, _ int) string {
	if width <= 0 {
		width = 80
	}
	s := p.summary
	rows := [][2]string{
		{"Files", fmt.Sprint(s.Files)},
		{"Records", fmt.Sprint(s.Records)},
		{"Skipped lines", fmt.Sprint(s.Skipped)},
		{"Distinct IPs", fmt.Sprint(s.DistinctIPs)},
		{"Locations", fmt.Sprint(s.Locations)},
		{"Unlocated records", fmt.Sprint(s.Unlocated)},
		{"Days", fmt.Sprint(s.Days)},
		{"First day", s.FirstDay},
		{"Last day", s.LastDay},
		{"Top location", s.TopLocation},
		{"Top IP", s.TopIP},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-18s %s\n", r[0], r[1])
	}
	if len(p.skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Skipped lines"))
		b.WriteString("\n")
		for i, m := range p.skipped {
			if i == maxSkippedShown {
				fmt.Fprintf(&b, "… %d more\n", len(p.skipped)-maxSkippedShown)
				break
			}
			fmt.Fprintf(&b, "%s:%d  %s\n", m.Source, m.Line, m.Reason)
		}
	}

	body := sectionStyle.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Summary"),
		body,
		helpStyle.Render("s/esc: back to charts • q: quit"),
	)
}
