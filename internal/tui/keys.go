package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings. List navigation and
// filtering live in components.ListKeyMap.
type KeyMap struct {
	Quit            key.Binding
	Help            key.Binding
	ToggleInspector key.Binding
	ToggleFacets    key.Binding
	Refresh         key.Binding
	OpenStore       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle info"),
		),
		ToggleFacets: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle facets"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh catalog"),
		),
		OpenStore: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open store page"),
		),
	}
}
