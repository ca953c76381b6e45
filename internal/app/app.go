package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/keys"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/mutate"
	"github.com/nhle/rulebook/internal/session"
	"github.com/nhle/rulebook/internal/store"
	"github.com/nhle/rulebook/internal/theme"
	"github.com/nhle/rulebook/internal/ui"
	"github.com/nhle/rulebook/internal/ui/command"
	"github.com/nhle/rulebook/internal/ui/confirm"
	helpview "github.com/nhle/rulebook/internal/ui/help"
	"github.com/nhle/rulebook/internal/ui/library"
	"github.com/nhle/rulebook/internal/ui/rawedit"
	"github.com/nhle/rulebook/internal/ui/ruleform"
	"github.com/nhle/rulebook/internal/ui/rulelist"
	"github.com/nhle/rulebook/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewForm
	ViewConfirm
	ViewRaw
	ViewLibrary
)

// Options wires the root model to the session and its collaborators.
// Library and Watcher may be nil.
type Options struct {
	Session *session.Session
	Library store.Library
	Watcher *watch.Watcher
	Config  model.AppConfig
	Logger  zerolog.Logger
	Now     func() time.Time
}

// Model is the root Bubble Tea model. It owns view routing and is the only
// caller of the session; file and database I/O run in commands whose
// results come back as messages.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	sess         *session.Session
	lib          store.Library
	watcher      *watch.Watcher
	cfg          model.AppConfig
	log          zerolog.Logger
	now          func() time.Time

	ruleList    rulelist.Model
	ruleForm    ruleform.Model
	confirmView confirm.Model
	rawView     rawedit.Model
	libraryView library.Model
	helpView    helpview.Model
	commandView command.Model

	ready     bool
	status    string
	statusErr bool

	// lastExport is the absolute path of the last successful export. The
	// watcher event caused by writing it is skipped once.
	lastExport string
}

// New creates the root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		currentView: ViewList,
		keys:        k,
		sess:        opts.Session,
		lib:         opts.Library,
		watcher:     opts.Watcher,
		cfg:         opts.Config,
		log:         opts.Logger,
		now:         now,
		ruleList:    rulelist.New(k, 80, 24),
		ruleForm:    ruleform.New(80, 24),
		confirmView: confirm.New(80, 24),
		rawView:     rawedit.New(80, 24),
		libraryView: library.New(opts.Library, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
	m.ruleList.SetRules(m.sess.Visible())
	return m
}

// Init starts listening for file changes when a watcher is configured.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.WaitForChange()
	}
	return nil
}

// Session returns the session driven by this model.
func (m Model) Session() *session.Session { return m.sess }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Status returns the last status line message and whether it is an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.ruleList.SetSize(w, h)
		m.ruleForm.SetSize(w, h)
		m.confirmView.SetSize(w, h)
		m.rawView.SetSize(w, h)
		m.libraryView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	// Intents from the rule list.
	case rulelist.NewRuleMsg:
		id := m.sess.AddRule()
		refreshCmd := m.refresh()
		selectCmd := m.ruleList.Select(id, "")
		rule, _ := m.sess.Document().Rule(id)
		formCmd := m.openForm(m.ruleForm.StartRule(rule))
		return m, tea.Batch(refreshCmd, selectCmd, formCmd)

	case rulelist.EditRuleMsg:
		rule, ok := m.sess.Document().Rule(msg.RuleID)
		if !ok {
			return m, nil
		}
		cmd := m.openForm(m.ruleForm.StartRule(rule))
		return m, cmd

	case rulelist.AddPointMsg:
		id := m.sess.AddPoint(msg.RuleID)
		if id == "" {
			return m, nil
		}
		refreshCmd := m.refresh()
		selectCmd := m.ruleList.Select(msg.RuleID, id)
		point, _ := m.findPoint(msg.RuleID, id)
		formCmd := m.openForm(m.ruleForm.StartPoint(msg.RuleID, point))
		return m, tea.Batch(refreshCmd, selectCmd, formCmd)

	case rulelist.EditPointMsg:
		point, ok := m.findPoint(msg.RuleID, msg.PointID)
		if !ok {
			return m, nil
		}
		cmd := m.openForm(m.ruleForm.StartPoint(msg.RuleID, point))
		return m, cmd

	case rulelist.TogglePointMsg:
		point, ok := m.findPoint(msg.RuleID, msg.PointID)
		if !ok {
			return m, nil
		}
		done := !point.Done
		m.sess.UpdatePoint(msg.RuleID, msg.PointID, mutate.PointPatch{Done: &done})
		cmd := m.refresh()
		return m, cmd

	case rulelist.DeleteRequestMsg:
		title, detail := deletePrompt(msg)
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		cmd := m.confirmView.Ask(title, detail, msg)
		return m, cmd

	case rulelist.MoveMsg:
		var moved bool
		if msg.PointID != "" {
			moved = m.sess.MovePoint(msg.RuleID, msg.PointID, msg.Delta)
		} else {
			moved = m.sess.MoveRule(msg.RuleID, msg.Delta)
		}
		if !moved {
			return m, nil
		}
		cmd := m.refresh()
		return m, cmd

	case rulelist.QueryChangedMsg:
		m.sess.SetQuery(msg.Query)
		cmd := m.refresh()
		return m, cmd

	// Form, dialog and editor results.
	case ruleform.RuleSubmittedMsg:
		m.currentView = ViewList
		m.sess.UpdateRule(msg.RuleID, mutate.RulePatch{Title: &msg.Title, Description: &msg.Description})
		cmd := m.refresh()
		return m, cmd

	case ruleform.PointSubmittedMsg:
		m.currentView = ViewList
		m.sess.UpdatePoint(msg.RuleID, msg.PointID, mutate.PointPatch{Text: &msg.Text})
		cmd := m.refresh()
		return m, cmd

	case ruleform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case confirm.ResultMsg:
		m.currentView = ViewList
		req, ok := msg.Payload.(rulelist.DeleteRequestMsg)
		if !msg.Confirmed || !ok {
			return m, nil
		}
		if req.PointID != "" {
			m.sess.DeletePoint(req.RuleID, req.PointID)
			m.setStatus("Point deleted (u to undo)")
		} else {
			m.sess.DeleteRule(req.RuleID)
			m.setStatus("Rule deleted (u to undo)")
		}
		cmd := m.refresh()
		return m, cmd

	case rawedit.SavedMsg:
		m.currentView = ViewList
		m.sess.Import(msg.Doc)
		m.setStatus("Document updated")
		cmd := m.refresh()
		return m, cmd

	case rawedit.CancelMsg:
		m.currentView = ViewList
		return m, nil

	// Library.
	case library.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case library.LoadMsg:
		return m, m.loadExport(msg.ID, msg.Title)

	case library.SaveRequestMsg:
		return m, m.saveToLibrary()

	// I/O results.
	case documentLoadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("source", msg.source).Msg("import failed")
			m.setError(interchange.Message(msg.err))
			return m, nil
		}
		m.sess.Import(msg.doc)
		m.setStatus(fmt.Sprintf("Imported %s (%d rules)", msg.source, len(msg.doc.Rules)))
		if m.currentView == ViewLibrary {
			m.currentView = ViewList
		}
		cmd := m.refresh()
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("path", msg.path).Msg("export failed")
			m.setError("Export failed: " + msg.err.Error())
			return m, nil
		}
		if abs, err := filepath.Abs(msg.path); err == nil {
			m.lastExport = abs
		}
		m.setStatus("Exported to " + msg.path)
		return m, nil

	case librarySavedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("library save failed")
			m.setError("Save failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Saved %q to library", msg.export.Title))
		if m.currentView == ViewLibrary {
			m.libraryView.SetStatus(m.status)
			cmd := m.libraryView.Reload()
			return m, cmd
		}
		return m, nil

	case watch.FileChangedMsg:
		var next tea.Cmd
		if m.watcher != nil {
			next = m.watcher.WaitForChange()
		}
		if m.lastExport != "" && filepath.Clean(msg.Path) == m.lastExport {
			m.lastExport = ""
			m.log.Debug().Str("path", msg.Path).Msg("skipping change from own export")
			return m, next
		}
		return m, tea.Batch(m.importFile(msg.Path), next)

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that act on the whole document. They are
// only live when no text input has focus.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.currentView == ViewHelp && (key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back)) {
		m.currentView = m.previousView
		return true, m, nil
	}
	if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return true, m, nil
	}
	if m.currentView != ViewList || m.ruleList.Searching() {
		return false, m, nil
	}

	var cmd tea.Cmd
	switch action := keys.HistoryAction(msg.String()); {
	case action == keys.Undo || key.Matches(msg, m.keys.Undo):
		cmd = m.undo()
	case action == keys.Redo || key.Matches(msg, m.keys.Redo):
		cmd = m.redo()
	case key.Matches(msg, m.keys.Quit):
		cmd = tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd = m.commandView.Focus()
	case key.Matches(msg, m.keys.Raw):
		cmd = m.openRaw()
	case key.Matches(msg, m.keys.Export):
		cmd = m.exportFile("")
	case key.Matches(msg, m.keys.Library):
		cmd = m.openLibrary()
	default:
		return false, m, nil
	}
	return true, m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.ruleList, cmd = m.ruleList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.ruleForm, cmd = m.ruleForm.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	case ViewRaw:
		m.rawView, cmd = m.rawView.Update(msg)
	case ViewLibrary:
		m.libraryView, cmd = m.libraryView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	doc := m.sess.Document()
	title := doc.Meta.Title
	if title == "" {
		title = "Rule Book"
	}
	if doc.Meta.Version != "" {
		title += " v" + doc.Meta.Version
	}

	header := m.layout.RenderHeader(title, m.depthStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.ruleList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.ruleForm.View()
	case ViewConfirm:
		return m.confirmView.View()
	case ViewRaw:
		return m.rawView.View()
	case ViewLibrary:
		return m.libraryView.View()
	default:
		return ""
	}
}

// depthStatus summarizes the history stacks for the header.
func (m Model) depthStatus() string {
	undo, redo := m.sess.Depth()
	return fmt.Sprintf("undo %d · redo %d", undo, redo)
}

// statusLine returns the last message, or key hints for the active view.
func (m Model) statusLine() string {
	if m.status != "" && m.currentView == ViewList {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return m.status
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewConfirm:
		return "y confirm | n cancel"
	case ViewRaw:
		return "ctrl+s apply | esc cancel"
	case ViewLibrary:
		return "enter load | s save | d delete | esc back"
	default:
		if m.ruleList.Searching() {
			return "type to filter | enter keep | esc clear"
		}
		return "q quit | ? help | n new | a point | e edit | d delete | u undo | U redo | / search | : command"
	}
}
