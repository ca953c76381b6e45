package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/theme"
)

// Palette command names.
const (
	Export      = "export"
	Import      = "import"
	Save        = "save"
	Library     = "library"
	Raw         = "raw"
	Undo        = "undo"
	Redo        = "redo"
	NewRule     = "new"
	ExpandAll   = "expand all"
	CollapseAll = "collapse all"
	Clear       = "clear"
	Quit        = "quit"
)

// Entry describes one palette command for the help screen.
type Entry struct {
	Usage string
	Desc  string
}

// Entries lists every palette command in display order.
func Entries() []Entry {
	return []Entry{
		{Export + " [path]", "write the document as JSON"},
		{Import + " <path>", "replace the document from a JSON file"},
		{Save, "store a snapshot in the library"},
		{Library, "browse saved snapshots"},
		{Raw, "show the document as JSON"},
		{Undo, "undo the last edit"},
		{Redo, "redo the last undone edit"},
		{NewRule, "add a rule at the top"},
		{ExpandAll, "expand every rule"},
		{CollapseAll, "collapse every rule"},
		{Clear, "remove all rules"},
		{Quit + ", q", "exit"},
	}
}

// Command is a parsed palette entry.
type Command struct {
	Name string
	Arg  string
}

// Parse splits a palette line into a command and its argument. Two-word
// commands ("expand all") are matched before single words.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("empty command")
	}

	lower := strings.ToLower(line)
	for _, name := range []string{ExpandAll, CollapseAll} {
		if lower == name {
			return Command{Name: name}, nil
		}
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case Import:
		if arg == "" {
			return Command{}, fmt.Errorf("usage: import <path>")
		}
	case Export:
	case Save, Library, Raw, Undo, Redo, NewRule, Clear, Quit, "q":
		if arg != "" {
			return Command{}, fmt.Errorf("%s takes no argument", name)
		}
		if name == "q" {
			name = Quit
		}
	default:
		return Command{}, fmt.Errorf("unknown command: %s", name)
	}

	return Command{Name: name, Arg: arg}, nil
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "export · import <path> · save · library · raw · undo · redo"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
