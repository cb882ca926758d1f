package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	once    key.Binding
	auto    key.Binding
	stop    key.Binding
	reset   key.Binding
	history key.Binding
	up      key.Binding
	down    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		once:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "run once")),
		auto:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto run")),
		stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		history: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.once, k.auto, k.stop, k.reset, k.history, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.once, k.auto, k.stop, k.reset, k.history},
		{k.up, k.down, k.quit},
	}
}
