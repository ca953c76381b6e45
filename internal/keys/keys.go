package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Expand / collapse the selected rule's points
	Toggle key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Rule and point edits
	NewRule    key.Binding
	AddPoint   key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ToggleDone key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding

	// History
	Undo key.Binding
	Redo key.Binding

	// Document
	Raw     key.Binding
	Export  key.Binding
	Library key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand/collapse"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		NewRule: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new rule"),
		),
		AddPoint: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add point"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle done"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z", "alt+z"),
			key.WithHelp("u/ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y", "alt+y", "ctrl+shift+z", "alt+Z", "alt+shift+z"),
			key.WithHelp("U/ctrl+y", "redo"),
		),
		Raw: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "raw editor"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export"),
		),
		Library: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "library"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NewRule, k.AddPoint, k.Edit, k.Delete,
		k.Undo, k.Redo, k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Back, k.Quit},
		{k.NewRule, k.AddPoint, k.Edit, k.Delete, k.ToggleDone, k.MoveUp, k.MoveDown},
		{k.Undo, k.Redo, k.Search, k.Command, k.Help},
		{k.Raw, k.Export, k.Library},
	}
}

// Action is the history action bound to a key chord.
type Action int

const (
	None Action = iota
	Undo
	Redo
)

func (a Action) String() string {
	switch a {
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return "none"
	}
}

// HistoryAction maps a key chord string such as "ctrl+z" or "alt+shift+z"
// to an undo or redo. The chord needs an undo modifier: ctrl, or alt/meta
// standing in for the platform command key. Modifier+Z undoes;
// modifier+shift+Z and modifier+Y redo. A capital letter counts as shift.
func HistoryAction(chord string) Action {
	parts := strings.Split(chord, "+")
	if len(parts) < 2 {
		return None
	}

	last := parts[len(parts)-1]
	var modifier, shift bool
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl", "alt", "meta", "cmd", "super":
			modifier = true
		case "shift":
			shift = true
		default:
			return None
		}
	}
	if !modifier || len(last) != 1 {
		return None
	}
	if last == "Z" || last == "Y" {
		shift = true
	}

	switch strings.ToLower(last) {
	case "z":
		if shift {
			return Redo
		}
		return Undo
	case "y":
		return Redo
	}
	return None
}
