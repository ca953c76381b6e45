// Package session holds the single editable rule book of a running editor
// together with its undo/redo history.
//
// A Session is not safe for concurrent use. The editor calls it only from
// the Bubble Tea update loop, which processes one message at a time.
package session

import (
	"github.com/rs/zerolog"

	"github.com/nhle/rulebook/internal/history"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/mutate"
	"github.com/nhle/rulebook/internal/search"
)

// Session owns the current document and the history stacks.
type Session struct {
	doc     model.RuleBook
	history *history.Stack[model.RuleBook]
	engine  *mutate.Engine
	query   string
	log     zerolog.Logger

	defaultTitle *string
}

// Option configures a Session.
type Option func(*Session)

// WithEngine replaces the mutation engine (tests use a fixed clock).
func WithEngine(e *mutate.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// WithCapacity sets the undo depth.
func WithCapacity(n int) Option {
	return func(s *Session) { s.history = history.New[model.RuleBook](n) }
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithDefaultRuleTitle sets the title given to new rules.
func WithDefaultRuleTitle(title string) Option {
	return func(s *Session) { s.defaultTitle = &title }
}

// New starts a session on initial. The document is cloned so the caller
// keeps no handle into session state. Starting a session is not an edit:
// the history begins empty.
func New(initial model.RuleBook, opts ...Option) *Session {
	s := &Session{
		doc:     initial.Clone(),
		history: history.New[model.RuleBook](model.DefaultHistoryLimit),
		engine:  mutate.New(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultTitle != nil {
		e := *s.engine
		e.DefaultRuleTitle = *s.defaultTitle
		s.engine = &e
	}
	return s
}

// Document returns the current document. Treat it as read-only: the value
// shares storage with history snapshots.
func (s *Session) Document() model.RuleBook { return s.doc }

// Query returns the live search string.
func (s *Session) Query() string { return s.query }

// SetQuery updates the search string. It is not an edit and is never
// recorded in history.
func (s *Session) SetQuery(q string) { s.query = q }

// Visible returns the rules matching the current query, in document order.
func (s *Session) Visible() []model.Rule { return search.Filter(s.doc, s.query) }

// CanUndo reports whether there is an edit to undo.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is an undone edit to redo.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Depth returns the number of undo and redo snapshots held.
func (s *Session) Depth() (undo, redo int) {
	return s.history.UndoLen(), s.history.RedoLen()
}

// apply records the pre-mutation document, then installs the result of fn.
func (s *Session) apply(op string, fn func(model.RuleBook) model.RuleBook) {
	s.history.Record(s.doc)
	s.doc = fn(s.doc)
	s.log.Debug().
		Str("op", op).
		Int("rules", len(s.doc.Rules)).
		Int("undo", s.history.UndoLen()).
		Msg("applied edit")
}

// AddRule prepends a new empty rule and returns its ID.
func (s *Session) AddRule() string {
	s.apply("add_rule", s.engine.AddRule)
	if len(s.doc.Rules) == 0 {
		return ""
	}
	return s.doc.Rules[0].ID
}

// UpdateRule merges patch into the rule with ruleID.
func (s *Session) UpdateRule(ruleID string, patch mutate.RulePatch) {
	s.apply("update_rule", func(d model.RuleBook) model.RuleBook {
		return s.engine.UpdateRule(d, ruleID, patch)
	})
}

// DeleteRule removes the rule with ruleID. Callers confirm with the user
// first; the session does not.
func (s *Session) DeleteRule(ruleID string) {
	s.apply("delete_rule", func(d model.RuleBook) model.RuleBook {
		return s.engine.DeleteRule(d, ruleID)
	})
}

// ReorderRules replaces the rule order with newOrder verbatim.
func (s *Session) ReorderRules(newOrder []model.Rule) {
	s.apply("reorder_rules", func(d model.RuleBook) model.RuleBook {
		return s.engine.ReorderRules(d, newOrder)
	})
}

// MoveRule moves a rule by delta positions. It reports false, recording
// nothing, when the move is impossible.
func (s *Session) MoveRule(ruleID string, delta int) bool {
	order, ok := mutate.MoveRule(s.doc, ruleID, delta)
	if !ok {
		return false
	}
	s.ReorderRules(order)
	return true
}

// AddPoint appends an empty point to the rule and returns the new point ID,
// or "" when the rule does not exist.
func (s *Session) AddPoint(ruleID string) string {
	s.apply("add_point", func(d model.RuleBook) model.RuleBook {
		return s.engine.AddPoint(d, ruleID)
	})
	r, ok := s.doc.Rule(ruleID)
	if !ok || len(r.Points) == 0 {
		return ""
	}
	return r.Points[len(r.Points)-1].ID
}

// UpdatePoint merges patch into a point.
func (s *Session) UpdatePoint(ruleID, pointID string, patch mutate.PointPatch) {
	s.apply("update_point", func(d model.RuleBook) model.RuleBook {
		return s.engine.UpdatePoint(d, ruleID, pointID, patch)
	})
}

// DeletePoint removes a point. Callers confirm with the user first.
func (s *Session) DeletePoint(ruleID, pointID string) {
	s.apply("delete_point", func(d model.RuleBook) model.RuleBook {
		return s.engine.DeletePoint(d, ruleID, pointID)
	})
}

// ReorderPoints replaces a rule's point order with newOrder verbatim.
func (s *Session) ReorderPoints(ruleID string, newOrder []model.Point) {
	s.apply("reorder_points", func(d model.RuleBook) model.RuleBook {
		return s.engine.ReorderPoints(d, ruleID, newOrder)
	})
}

// MovePoint moves a point within its rule by delta positions.
func (s *Session) MovePoint(ruleID, pointID string, delta int) bool {
	order, ok := mutate.MovePoint(s.doc, ruleID, pointID, delta)
	if !ok {
		return false
	}
	s.ReorderPoints(ruleID, order)
	return true
}

// Import replaces the whole document. It is recorded like any other edit,
// so it can be undone. doc is cloned.
func (s *Session) Import(doc model.RuleBook) {
	incoming := doc.Clone()
	s.apply("import", func(model.RuleBook) model.RuleBook { return incoming })
	s.log.Info().
		Str("title", incoming.Meta.Title).
		Int("rules", len(incoming.Rules)).
		Msg("imported document")
}

// Undo restores the previous document. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = prev
	s.log.Debug().Int("undo", s.history.UndoLen()).Int("redo", s.history.RedoLen()).Msg("undo")
	return true
}

// Redo re-applies the most recently undone document.
func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = next
	s.log.Debug().Int("undo", s.history.UndoLen()).Int("redo", s.history.RedoLen()).Msg("redo")
	return true
}
