// Package confirm is the yes/no dialog shown before destructive edits.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/rulebook/internal/theme"
)

// ResultMsg is dispatched when the dialog closes. Payload is the value
// passed to Ask, returned untouched.
type ResultMsg struct {
	Confirmed bool
	Payload   any
}

// Model is the confirmation dialog.
type Model struct {
	form    *huh.Form
	answer  *bool
	payload any
	width   int
	height  int
}

// New creates a new dialog model.
func New(width, height int) Model {
	return Model{answer: new(bool), width: width, height: height}
}

// Ask opens the dialog with a question and an optional detail line.
func (m *Model) Ask(title, detail string, payload any) tea.Cmd {
	*m.answer = false
	m.payload = payload
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(detail).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(m.answer),
		),
	).WithWidth(min(max(m.width-4, 40), 80))
	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.result(*m.answer)
	case huh.StateAborted:
		return m, m.result(false)
	}
	return m, cmd
}

func (m Model) result(confirmed bool) tea.Cmd {
	msg := ResultMsg{Confirmed: confirmed, Payload: m.payload}
	return func() tea.Msg { return msg }
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return theme.PanelStyle.
		BorderForeground(theme.ColorRed).
		Render(m.form.View())
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
