package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browse screen key bindings
type KeyMap struct {
	Quit        key.Binding
	Escape      key.Binding
	ToggleFocus key.Binding
	ToGrid      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back/quit"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		ToGrid: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "results"),
		),
	}
}

// Keys is the global key map instance
var Keys = DefaultKeyMap()
