package ruleform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/theme"
)

// RuleSubmittedMsg is dispatched when the rule form is completed.
type RuleSubmittedMsg struct {
	RuleID      string
	Title       string
	Description string
}

// PointSubmittedMsg is dispatched when the point form is completed.
type PointSubmittedMsg struct {
	RuleID  string
	PointID string
	Text    string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

type formMode int

const (
	modeRule formMode = iota
	modePoint
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	text        string
}

// Model is the Bubble Tea model for the rule and point edit forms.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    formMode
	ruleID  string
	pointID string
	width   int
	height  int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartRule initializes the form for editing a rule.
func (m *Model) StartRule(rule model.Rule) tea.Cmd {
	m.mode = modeRule
	m.ruleID = rule.ID
	m.pointID = ""
	m.fb.title = rule.Title
	m.fb.description = rule.Description
	m.form = m.buildRuleForm()
	return m.form.Init()
}

// StartPoint initializes the form for editing a point's text.
func (m *Model) StartPoint(ruleID string, point model.Point) tea.Cmd {
	m.mode = modePoint
	m.ruleID = ruleID
	m.pointID = point.ID
	m.fb.text = point.Text
	m.form = m.buildPointForm()
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Edit Rule"
	if m.mode == modePoint {
		titleText = "Edit Point"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildRuleForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g. Health").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildPointForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Point").
				Placeholder("e.g. Sleep 8 hours").
				Value(&m.fb.text),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.mode == modePoint {
		msg := PointSubmittedMsg{
			RuleID:  m.ruleID,
			PointID: m.pointID,
			Text:    strings.TrimSpace(m.fb.text),
		}
		return func() tea.Msg { return msg }
	}

	msg := RuleSubmittedMsg{
		RuleID:      m.ruleID,
		Title:       strings.TrimSpace(m.fb.title),
		Description: strings.TrimRight(m.fb.description, " \n"),
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
