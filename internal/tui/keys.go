package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer key bindings with built-in help text.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Summary   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "]"),
			key.WithHelp("tab/→", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "["),
			key.WithHelp("shift+tab/←", "prev view"),
		),
		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summary"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.PrevView, k.Summary, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.Summary},
		{k.Help, k.Escape},
		{k.Quit, k.ForceQuit},
	}
}
