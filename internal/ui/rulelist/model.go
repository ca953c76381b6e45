package rulelist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/rulebook/internal/keys"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/theme"
)

// NewRuleMsg asks for a new rule.
type NewRuleMsg struct{}

// EditRuleMsg asks to edit a rule's title and description.
type EditRuleMsg struct {
	RuleID string
}

// EditPointMsg asks to edit a point's text.
type EditPointMsg struct {
	RuleID  string
	PointID string
}

// AddPointMsg asks for a new point on a rule.
type AddPointMsg struct {
	RuleID string
}

// TogglePointMsg asks to flip a point's done flag.
type TogglePointMsg struct {
	RuleID  string
	PointID string
}

// DeleteRequestMsg asks to delete a rule, or a point when PointID is set.
// The app confirms before deleting.
type DeleteRequestMsg struct {
	RuleID  string
	PointID string
	Label   string
}

// MoveMsg asks to move a rule, or a point when PointID is set, by Delta
// positions.
type MoveMsg struct {
	RuleID  string
	PointID string
	Delta   int
}

// QueryChangedMsg carries the live search query.
type QueryChangedMsg struct {
	Query string
}

// Model is the rule list view. It renders rules handed to it by the app and
// turns keys into intent messages; it never edits the document itself.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	rules       []model.Rule
	expanded    map[string]bool
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new rule list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Rules"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("row", "rows")
	l.Styles.Title = theme.HeaderStyle
	// J and K reorder; keep plain j/k and arrows for navigation.
	l.KeyMap.CursorUp.SetKeys("up", "k")
	l.KeyMap.CursorDown.SetKeys("down", "j")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "search rules and points..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		expanded:    make(map[string]bool),
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRules replaces the rules shown (already filtered by the query) and
// keeps the cursor on the same row when it still exists.
func (m *Model) SetRules(rules []model.Rule) tea.Cmd {
	ruleID, pointID := m.Selected()
	m.rules = rules
	return m.refresh(ruleID, pointID)
}

// Select moves the cursor to a rule, or to a point of it, expanding the
// rule so the point is visible.
func (m *Model) Select(ruleID, pointID string) tea.Cmd {
	if pointID != "" {
		m.expanded[ruleID] = true
	}
	return m.refresh(ruleID, pointID)
}

// SetExpandedAll expands or collapses every rule.
func (m *Model) SetExpandedAll(open bool) tea.Cmd {
	ruleID, _ := m.Selected()
	m.expanded = make(map[string]bool)
	if open {
		for _, r := range m.rules {
			m.expanded[r.ID] = true
		}
	}
	return m.refresh(ruleID, "")
}

// ClearSearch leaves search mode and empties the query.
func (m *Model) ClearSearch() tea.Cmd {
	m.searchMode = false
	m.searchInput.Reset()
	m.searchInput.Blur()
	return m.setQuery("")
}

// Selected returns the IDs under the cursor. pointID is "" on a rule row.
func (m Model) Selected() (ruleID, pointID string) {
	row, ok := m.list.SelectedItem().(Row)
	if !ok {
		return "", ""
	}
	return row.Rule.ID, row.PointID()
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

// Query returns the live search string.
func (m Model) Query() string { return m.query }

// Rows returns the rows currently displayed.
func (m Model) Rows() []Row {
	items := m.list.Items()
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		if r, ok := it.(Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

func (m *Model) refresh(ruleID, pointID string) tea.Cmd {
	rows := Flatten(m.rules, m.expanded, m.query)
	items := make([]list.Item, len(rows))
	target := -1
	ruleIdx := -1
	for i, r := range rows {
		items[i] = r
		if r.Rule.ID == ruleID {
			if r.PointID() == pointID {
				target = i
			}
			if !r.IsPoint() {
				ruleIdx = i
			}
		}
	}
	cmd := m.list.SetItems(items)

	switch {
	case target >= 0:
		m.list.Select(target)
	case ruleIdx >= 0:
		m.list.Select(ruleIdx)
	case m.list.Index() >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}
	return cmd
}

func (m *Model) setQuery(q string) tea.Cmd {
	m.query = q
	return func() tea.Msg { return QueryChangedMsg{Query: q} }
}

// Update handles messages for the rule list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The query is
// applied as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		cmd := m.ClearSearch()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.query {
		return m, tea.Batch(cmd, m.setQuery(q))
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	row, hasRow := m.list.SelectedItem().(Row)

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.query != "" {
			cmd := m.ClearSearch()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.NewRule):
		return m, emit(NewRuleMsg{})
	}

	if !hasRow {
		return m, nil
	}
	ruleID, pointID := row.Rule.ID, row.PointID()

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if row.IsPoint() {
			return m, nil
		}
		m.expanded[ruleID] = !m.expanded[ruleID]
		return m, m.refresh(ruleID, "")

	case key.Matches(msg, m.keys.Edit):
		if row.IsPoint() {
			return m, emit(EditPointMsg{RuleID: ruleID, PointID: pointID})
		}
		return m, emit(EditRuleMsg{RuleID: ruleID})

	case key.Matches(msg, m.keys.AddPoint):
		return m, emit(AddPointMsg{RuleID: ruleID})

	case key.Matches(msg, m.keys.ToggleDone):
		if !row.IsPoint() {
			return m, nil
		}
		return m, emit(TogglePointMsg{RuleID: ruleID, PointID: pointID})

	case key.Matches(msg, m.keys.Delete):
		label := row.Rule.Title
		if row.IsPoint() {
			label = row.Point.Text
		}
		return m, emit(DeleteRequestMsg{RuleID: ruleID, PointID: pointID, Label: label})

	case key.Matches(msg, m.keys.MoveUp):
		return m, emit(MoveMsg{RuleID: ruleID, PointID: pointID, Delta: -1})

	case key.Matches(msg, m.keys.MoveDown):
		return m, emit(MoveMsg{RuleID: ruleID, PointID: pointID, Delta: 1})
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the rule list view.
func (m Model) View() string {
	var body string
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.list.View()
	}

	if m.searchMode || m.query != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		if !m.searchMode {
			searchBar = theme.HelpStyle.Padding(0, 1).Render("filter: " + m.query + "  (esc to clear)")
		}
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}
	return body
}

// renderEmptyState shows guidance text when no rules are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-2, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No rules match \"" + m.query + "\".\nPress esc to clear the search.")
	}

	return style.Render(
		"No rules yet.\n\n" +
			"Press n to create one, or : then 'import <path>'.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-2, 1))
	m.searchInput.Width = width - 4
}
