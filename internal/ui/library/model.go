package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/keys"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/store"
	"github.com/nhle/rulebook/internal/theme"
)

// CloseMsg signals the parent to close the library view.
type CloseMsg struct{}

// LoadMsg asks the parent to import the export with ID.
type LoadMsg struct {
	ID    string
	Title string
}

// SaveRequestMsg asks the parent to export the current document into the
// library.
type SaveRequestMsg struct{}

type libraryMode int

const (
	modeList libraryMode = iota
	modeConfirmDelete
)

type exportsLoadedMsg struct {
	exports []model.Export
	err     error
}

type exportDeletedMsg struct{ err error }

// Model is the Bubble Tea model for browsing the export library.
type Model struct {
	mode        libraryMode
	store       store.Library
	keys        *keys.KeyMap
	exports     []model.Export
	selectedIdx int
	confirmForm *huh.Form
	confirm     *bool
	statusMsg   string
	width       int
	height      int
}

// New creates a new library model.
func New(s store.Library, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:    modeList,
		store:   s,
		keys:    k,
		confirm: new(bool),
		width:   width,
		height:  height,
	}
}

// Init loads the export list from the store.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload returns a command that re-reads the export list.
func (m Model) Reload() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if s == nil {
			return exportsLoadedMsg{err: fmt.Errorf("export library is not available")}
		}
		exports, err := s.ListExports(context.Background(), store.DefaultListLimit)
		return exportsLoadedMsg{exports: exports, err: err}
	}
}

// Selected returns the highlighted export, if any.
func (m Model) Selected() (model.Export, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.exports) {
		return model.Export{}, false
	}
	return m.exports[m.selectedIdx], true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			m.exports = nil
		} else {
			m.exports = msg.exports
		}
		if m.selectedIdx >= len(m.exports) {
			m.selectedIdx = max(len(m.exports)-1, 0)
		}
		return m, nil

	case exportDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Export deleted"
		}
		m.mode = modeList
		return m, m.Reload()

	case tea.KeyMsg:
		if m.mode == modeConfirmDelete {
			return m.updateConfirm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Library):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.exports) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.exports)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.exports) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.exports) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		e, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return LoadMsg{ID: e.ID, Title: e.Title} }

	case msg.String() == "s":
		return m, func() tea.Msg { return SaveRequestMsg{} }

	case key.Matches(msg, m.keys.Delete):
		e, ok := m.Selected()
		if !ok {
			return m, nil
		}
		*m.confirm = false
		m.confirmForm = m.buildConfirmForm(e)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildConfirmForm(e model.Export) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete export %q from %s?", e.Title, e.ExportedAt.Local().Format("2006-01-02 15:04"))).
				Description("Library entries cannot be restored with undo.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(min(max(m.width-4, 40), 100))
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if e, ok := m.Selected(); ok && *m.confirm {
			return m, m.deleteExport(e.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) deleteExport(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteExport(context.Background(), id)
		return exportDeletedMsg{err: err}
	}
}

// SetStatus shows a one-line message under the list.
func (m *Model) SetStatus(s string) {
	m.statusMsg = s
}

// View renders the library.
func (m Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Export Library"))
	b.WriteString("\n\n")

	if len(m.exports) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No exports yet. Press 's' to save the current rule book."))
	} else {
		for i, e := range m.exports {
			title := e.Title
			if title == "" {
				title = "(untitled)"
			}
			label := fmt.Sprintf("%s  %s  %s",
				e.ExportedAt.Local().Format("2006-01-02 15:04"),
				title,
				theme.DimmedStyle.Render(fmt.Sprintf("v%s · %d rules · %d points", e.Version, e.RuleCount, e.PointCount)),
			)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter load | s save current | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
