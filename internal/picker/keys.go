package picker

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists the bindings the widget reacts to.
type KeyMap struct {
	NextFocus    key.Binding
	PrevFocus    key.Binding
	PrevProvider key.Binding
	NextProvider key.Binding
	Toggle       key.Binding
	Up           key.Binding
	Down         key.Binding
	Select       key.Binding
	Close        key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "switch back"),
		),
		PrevProvider: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev provider"),
		),
		NextProvider: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next provider"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open models"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// helpKeys adapts the bindings relevant to the current mode to help.KeyMap.
type helpKeys struct {
	short []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h.short} }
