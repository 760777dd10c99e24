package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBlue  = lipgloss.Color("39")
	ColorGray  = lipgloss.Color("244")
	ColorWhite = lipgloss.Color("255")
	ColorNavy  = lipgloss.Color("17")
	ColorOther = lipgloss.Color("240")
)

// keyPalette colours stacked segments and bars, cycling for long key lists.
var keyPalette = []lipgloss.Color{
	lipgloss.Color("39"),
	lipgloss.Color("208"),
	lipgloss.Color("46"),
	lipgloss.Color("201"),
	lipgloss.Color("226"),
	lipgloss.Color("51"),
	lipgloss.Color("196"),
	lipgloss.Color("99"),
	lipgloss.Color("214"),
	lipgloss.Color("120"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorNavy).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// colorFor returns the palette colour of the i-th key.
func colorFor(i int) lipgloss.Color {
	return keyPalette[i%len(keyPalette)]
}

// barStyle fills a bar cell with c.
func barStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Background(c)
}
