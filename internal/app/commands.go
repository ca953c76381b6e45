package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/store"
	"github.com/nhle/rulebook/internal/ui/command"
	"github.com/nhle/rulebook/internal/ui/rulelist"
)

// documentLoadedMsg carries a document read from a file or the library.
// On error the current document must stay as it is.
type documentLoadedMsg struct {
	doc    model.RuleBook
	source string
	err    error
}

type exportedMsg struct {
	path string
	err  error
}

type librarySavedMsg struct {
	export model.Export
	err    error
}

// refresh pushes the visible rules into the list view.
func (m *Model) refresh() tea.Cmd {
	return m.ruleList.SetRules(m.sess.Visible())
}

// openForm switches to the rule form. cmd is the form's init command.
func (m *Model) openForm(cmd tea.Cmd) tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewForm
	return cmd
}

func (m Model) findPoint(ruleID, pointID string) (model.Point, bool) {
	rule, ok := m.sess.Document().Rule(ruleID)
	if !ok {
		return model.Point{}, false
	}
	i := rule.FindPoint(pointID)
	if i < 0 {
		return model.Point{}, false
	}
	return rule.Points[i], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func deletePrompt(req rulelist.DeleteRequestMsg) (title, detail string) {
	if req.PointID != "" {
		return "Delete this point?", req.Label
	}
	return fmt.Sprintf("Delete rule %q and all its points?", req.Label), "This can be undone with u."
}

func (m *Model) undo() tea.Cmd {
	if !m.sess.Undo() {
		m.setStatus("Nothing to undo")
		return nil
	}
	m.setStatus("Undid last edit")
	return m.refresh()
}

func (m *Model) redo() tea.Cmd {
	if !m.sess.Redo() {
		m.setStatus("Nothing to redo")
		return nil
	}
	m.setStatus("Redid edit")
	return m.refresh()
}

func (m *Model) openRaw() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewRaw
	return m.rawView.Start(m.sess.Document())
}

func (m *Model) openLibrary() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewLibrary
	return m.libraryView.Reload()
}

// exportFile writes the current document. An empty target uses the
// configured export directory and a dated file name; a directory target
// gets the dated file name joined on.
func (m Model) exportFile(target string) tea.Cmd {
	doc := m.sess.Document()
	name := interchange.ExportFilename(m.cfg.Export.Prefix, m.now())
	dir := m.cfg.Export.Dir
	if dir == "" {
		dir = "."
	}

	return func() tea.Msg {
		path := filepath.Join(dir, name)
		if target != "" {
			path = model.ExpandHome(target)
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, name)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return exportedMsg{path: path, err: err}
		}
		return exportedMsg{path: path, err: interchange.WriteFile(path, doc)}
	}
}

// importFile reads a document from disk through the lenient import path.
func (m Model) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := interchange.ReadFile(model.ExpandHome(path), interchange.Lenient)
		return documentLoadedMsg{doc: doc, source: filepath.Base(path), err: err}
	}
}

func (m Model) loadExport(id, title string) tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		if lib == nil {
			return documentLoadedMsg{source: title, err: fmt.Errorf("export library is not available")}
		}
		doc, err := store.LoadDocument(context.Background(), lib, id)
		return documentLoadedMsg{doc: doc, source: title, err: err}
	}
}

func (m Model) saveToLibrary() tea.Cmd {
	lib := m.lib
	doc := m.sess.Document()
	return func() tea.Msg {
		if lib == nil {
			return librarySavedMsg{err: fmt.Errorf("export library is not available")}
		}
		e, err := store.NewExport(doc)
		if err != nil {
			return librarySavedMsg{err: err}
		}
		saved, err := lib.SaveExport(context.Background(), e)
		return librarySavedMsg{export: saved, err: err}
	}
}

// executeCommand runs a palette line.
func (m *Model) executeCommand(line string) tea.Cmd {
	c, err := command.Parse(line)
	if err != nil {
		m.setError(err.Error())
		return nil
	}

	switch c.Name {
	case command.Export:
		return m.exportFile(c.Arg)
	case command.Import:
		return m.importFile(c.Arg)
	case command.Save:
		return m.saveToLibrary()
	case command.Library:
		return m.openLibrary()
	case command.Raw:
		return m.openRaw()
	case command.Undo:
		return m.undo()
	case command.Redo:
		return m.redo()
	case command.NewRule:
		return func() tea.Msg { return rulelist.NewRuleMsg{} }
	case command.ExpandAll:
		return m.ruleList.SetExpandedAll(true)
	case command.CollapseAll:
		return m.ruleList.SetExpandedAll(false)
	case command.Clear:
		return m.ruleList.ClearSearch()
	case command.Quit:
		return tea.Quit
	}
	return nil
}
