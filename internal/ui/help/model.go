// Package help renders the key binding and palette reference.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/keys"
	"github.com/nhle/rulebook/internal/theme"
	"github.com/nhle/rulebook/internal/ui/command"
)

// Model is the help overlay.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates the help overlay for the given key map.
func New(km *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width - 4
	h.ShowAll = true
	return Model{keys: km, help: h, width: width, height: height}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View lists the key bindings followed by the palette commands.
func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.MarginBottom(1).Render("Keys"),
		m.help.View(m.keys),
		"",
		heading.MarginBottom(1).Render("Commands (:)"),
		paletteTable(command.Entries()),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

// paletteTable aligns usages in one column and descriptions in another.
func paletteTable(entries []command.Entry) string {
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Usage))
	}
	usage := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(width + 2)

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, usage.Render(e.Usage)+theme.HelpStyle.Render(e.Desc))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
