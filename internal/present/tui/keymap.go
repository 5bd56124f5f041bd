package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send       key.Binding
	Themes     key.Binding
	Preview    key.Binding
	Demo       key.Binding
	Editor     key.Binding
	Export     key.Binding
	Status     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

var defaultKeyMap = keyMap{
	Send:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	Themes:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	Preview:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
	Demo:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "demo")),
	Editor:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "editor")),
	Export:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "export")),
	Status:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "backend")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup", "shift+up")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown", "shift+down")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Send, k.Themes, k.Preview, k.Demo, k.Editor, k.Export, k.Status, k.Quit}
}
