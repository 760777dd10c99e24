package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/logcheck/internal/aggregate"
	"github.com/tinytelemetry/logcheck/internal/model"
)

// ViewerPageID identifies the chart viewer page.
const ViewerPageID = "charts"

// ViewerOptions tunes the charts shown by the viewer.
type ViewerOptions struct {
	// Top limits ranking charts to the highest entries; 0 shows as many as fit.
	Top int
	// MaxKeys is the number of keys a daily chart colours individually.
	MaxKeys int
	// Source is shown in the header, typically the logfile pattern.
	Source string
	// Files is the number of log files the corpus was read from.
	Files int
}

// chartView is one precomputed chart of the viewer.
type chartView struct {
	title  string
	render func(width, height int) string
}

// Viewer is a page cycling through rankings and daily breakdowns of a corpus.
// All aggregates are computed once when the viewer is built.
type Viewer struct {
	keys     KeyMap
	help     help.Model
	views    []chartView
	active   int
	showHelp bool
	header   string
}

// NewViewer aggregates corpus into the four viewer charts: ranking by
// location, ranking by IP, daily by location and daily by IP.
func NewViewer(corpus *model.Corpus, opts ViewerOptions) (*Viewer, error) {
	byLocation := aggregate.Rank(corpusRecords(corpus), model.FieldLocation)
	byIP := aggregate.Rank(corpusRecords(corpus), model.FieldIP)
	dailyLocation, err := aggregate.Daily(corpus, model.FieldLocation)
	if err != nil {
		return nil, err
	}
	dailyIP, err := aggregate.Daily(corpus, model.FieldIP)
	if err != nil {
		return nil, err
	}

	top := func(r model.Ranking) model.Ranking { return r.Top(opts.Top) }
	views := []chartView{
		{
			title:  "Ranking by location",
			render: func(w, h int) string { return RankingChart(top(byLocation), w, h) },
		},
		{
			title:  "Ranking by IP",
			render: func(w, h int) string { return RankingChart(top(byIP), w, h) },
		},
		{
			title:  "Daily by location",
			render: func(w, h int) string { return DailyChart(dailyLocation, w, h, opts.MaxKeys) },
		},
		{
			title:  "Daily by IP",
			render: func(w, h int) string { return DailyChart(dailyIP, w, h, opts.MaxKeys) },
		},
	}

	header := fmt.Sprintf("%d files · %d records", opts.Files, len(corpusRecords(corpus)))
	if opts.Source != "" {
		header = opts.Source + " · " + header
	}
	return &Viewer{
		keys:   DefaultKeyMap(),
		help:   help.New(),
		views:  views,
		header: header,
	}, nil
}

func corpusRecords(c *model.Corpus) []model.LogRecord {
	if c == nil {
		return nil
	}
	return c.Records
}

func (v *Viewer) ID() string { return ViewerPageID }

func (v *Viewer) Init() tea.Cmd { return nil }

// Active returns the index of the chart being shown.
func (v *Viewer) Active() int { return v.active }

// Title returns the title of the chart being shown.
func (v *Viewer) Title() string { return v.views[v.active].title }

func (v *Viewer) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit, v.keys.ForceQuit):
			return tea.Quit, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelp = !v.showHelp
		case key.Matches(msg, v.keys.Escape):
			v.showHelp = false
		case key.Matches(msg, v.keys.NextView):
			v.active = (v.active + 1) % len(v.views)
		case key.Matches(msg, v.keys.PrevView):
			v.active = (v.active + len(v.views) - 1) % len(v.views)
		case key.Matches(msg, v.keys.Summary):
			return nil, &PageNav{PageID: SummaryPageID}
		}
	}
	return nil, nil
}

func (v *Viewer) View(width, height int) string {
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}

	tabs := make([]string, len(v.views))
	for i, cv := range v.views {
		if i == v.active {
			tabs[i] = activeTabStyle.Render(cv.title)
		} else {
			tabs[i] = tabStyle.Render(cv.title)
		}
	}
	top := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("logcheck")+"  "+helpStyle.Render(v.header),
		strings.Join(tabs, " "),
	)

	v.help.ShowAll = v.showHelp
	bottom := v.help.View(v.keys)

	// Border and padding of the section take two lines and four columns.
	chartHeight := height - lipgloss.Height(top) - lipgloss.Height(bottom) - 2
	chartWidth := width - 4
	chart := v.views[v.active].render(chartWidth, max(chartHeight, minChartHeight))
	body := sectionStyle.Width(width - 2).Render(chart)

	return lipgloss.JoinVertical(lipgloss.Left, top, body, bottom)
}
