package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Printable keys belong to the focused text field, so every command sits on a control key.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	tab    key.Binding
	admin  key.Binding
	delete key.Binding
	save   key.Binding
	clear  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		admin:  key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "admin")),
		delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save playlist")),
		clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.tab, k.admin, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.tab, k.clear, k.admin},
		{k.delete, k.save, k.quit},
	}
}
