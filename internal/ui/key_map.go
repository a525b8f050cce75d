package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	scope    key.Binding
	search   key.Binding
	filter   key.Binding
	create   key.Binding
	edit     key.Binding
	delete   key.Binding
	favorite key.Binding
	copy     key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		scope:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scope")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter language")),
		create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		favorite: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
		copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.scope, k.search, k.filter},
		{k.create, k.edit, k.delete, k.favorite},
		{k.copy, k.quit},
	}
}
