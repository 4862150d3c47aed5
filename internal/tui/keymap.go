package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Toggle  key.Binding
	Reset   key.Binding
	Minutes key.Binding
	Preset  key.Binding
	Target  key.Binding
	Saved   key.Binding
	Help    key.Binding
	Quit    key.Binding

	// form and list bindings
	Submit key.Binding
	Save   key.Binding
	Next   key.Binding
	Delete key.Binding
	Back   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Minutes: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "set minutes"),
		),
		Preset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
		),
		Target: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "count to date"),
		),
		Saved: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "saved targets"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save and use"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Minutes, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Minutes, k.Preset},
		{k.Target, k.Saved, k.Help, k.Quit},
	}
}

// formHelp lists the bindings active in the target form.
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Save, k.Back}
}

// listHelp lists the bindings active in the saved-target list.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Delete, k.Back}
}
