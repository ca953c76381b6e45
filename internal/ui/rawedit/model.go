// Package rawedit is the whole-document JSON editor. Text is checked with
// the strict shape rules as it is typed; saving replaces the document.
package rawedit

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/theme"
)

// SavedMsg carries the parsed document when the user saves valid text.
type SavedMsg struct {
	Doc model.RuleBook
}

// CancelMsg is dispatched when the user leaves without saving.
type CancelMsg struct{}

var (
	saveKey = key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "apply"),
	)
	cancelKey = key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	)
)

// Model is the raw JSON editor view.
type Model struct {
	input  textarea.Model
	err    error
	width  int
	height int
}

// New creates a new raw editor model.
func New(width, height int) Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := Model{input: ta}
	m.SetSize(width, height)
	return m
}

// Start loads doc into the editor and focuses it.
func (m *Model) Start(doc model.RuleBook) tea.Cmd {
	data, err := interchange.Serialize(doc)
	if err != nil {
		m.err = err
		return nil
	}
	m.input.SetValue(string(data))
	m.input.CursorStart()
	m.validate()
	return m.input.Focus()
}

// Err returns the current validation error, or nil when the text is a
// valid document.
func (m Model) Err() error { return m.err }

// Value returns the editor text.
func (m Model) Value() string { return m.input.Value() }

func (m *Model) validate() {
	m.err = interchange.Validate([]byte(m.input.Value()), interchange.Strict)
}

// Update handles messages for the raw editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, cancelKey):
			m.input.Blur()
			return m, func() tea.Msg { return CancelMsg{} }

		case key.Matches(msg, saveKey):
			doc, err := interchange.Parse([]byte(m.input.Value()), interchange.Strict)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.input.Blur()
			return m, func() tea.Msg { return SavedMsg{Doc: doc} }
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.validate()
	}
	return m, cmd
}

// View renders the editor with its validation line.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	status := theme.SuccessStyle.Render("✓ valid document")
	if m.err != nil {
		status = theme.ErrorStyle.Render("✗ " + interchange.Message(m.err))
	}

	hints := theme.HelpStyle.Render(saveKey.Help().Key + " " + saveKey.Help().Desc +
		" · " + cancelKey.Help().Key + " " + cancelKey.Help().Desc)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Raw Document"),
		m.input.View(),
		status,
		hints,
	)
}

// SetSize updates the editor dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(width-2, 10))
	m.input.SetHeight(max(height-4, 3))
}
