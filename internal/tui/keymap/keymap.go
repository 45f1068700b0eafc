// Package keymap provides the key bindings of the terminal dashboard.
// The bindings double as the help.KeyMap rendered in the footer.
package keymap

import "github.com/charmbracelet/bubbles/key"

// Keymap holds every binding the dashboard reacts to.
type Keymap struct {
	Refresh key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Default returns the default key bindings.
func Default() Keymap {
	return Keymap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Theme},
		{k.Help, k.Quit},
	}
}
