// Package keymap defines keybindings for the reader TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the reader.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// NextPage turns to the next page.
	NextPage key.Binding

	// PrevPage turns to the previous page.
	PrevPage key.Binding

	// Library opens the book collection view.
	Library key.Binding

	// TOC opens the table of contents.
	TOC key.Binding

	// Search opens the in-book search.
	Search key.Binding

	// NextTab selects the next tab in the focused group.
	NextTab key.Binding

	// PrevTab selects the previous tab in the focused group.
	PrevTab key.Binding

	// CloseTab closes the selected tab.
	CloseTab key.Binding

	// SplitGroup opens a new tab group beside the focused one.
	SplitGroup key.Binding

	// NextGroup focuses the next tab group.
	NextGroup key.Binding

	// JumpBack returns to the position before the last jump.
	JumpBack key.Binding

	// Annotate toggles a highlight at the current position.
	Annotate key.Binding

	// Delete removes the selected item.
	Delete key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Library: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "library"),
		),
		TOC: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "contents"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close tab"),
		),
		SplitGroup: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "split"),
		),
		NextGroup: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "next pane"),
		),
		JumpBack: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "jump back"),
		),
		Annotate: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "highlight"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ReaderHelp returns keybindings for the reading view.
func (k *KeyMap) ReaderHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Annotate, k.TOC, k.Search, k.Library}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.PrevPage, k.NextPage, k.JumpBack, k.Annotate},
		{k.NextTab, k.PrevTab, k.CloseTab},
		{k.SplitGroup, k.NextGroup},
		{k.Library, k.TOC, k.Search},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
