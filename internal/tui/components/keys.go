package components

import "github.com/charmbracelet/bubbles/key"

// GridKeyMap defines key bindings for poster grid navigation
type GridKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Escape   key.Binding
	Accept   key.Binding
}

// DefaultGridKeyMap returns the default poster grid key bindings
func DefaultGridKeyMap() GridKeyMap {
	return GridKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first poster"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last poster"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept filter"),
		),
	}
}

// GridKeys is the poster grid key bindings instance
var GridKeys = DefaultGridKeyMap()

// GenreFormKeyMap defines key bindings for the genre filter form.
// Letters narrow the list, so navigation avoids them.
type GenreFormKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Submit key.Binding
	Close  key.Binding
}

// DefaultGenreFormKeyMap returns the default genre form key bindings
func DefaultGenreFormKeyMap() GenreFormKeyMap {
	return GenreFormKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "uncheck all"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// GenreFormKeys is the genre form key bindings instance
var GenreFormKeys = DefaultGenreFormKeyMap()
