// Package mutate implements the document mutation engine. Every operation
// takes the current document and returns a new one; published documents are
// never written in place, so earlier values stay valid as undo snapshots.
//
// Lookups are by ID. An unknown ID is a silent no-op that returns the input
// document unchanged.
package mutate

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhle/rulebook/internal/model"
)

// RulePatch carries the rule fields to merge. Nil fields are left as-is.
type RulePatch struct {
	Title       *string
	Description *string
}

// PointPatch carries the point fields to merge. Nil fields are left as-is.
type PointPatch struct {
	Text *string
	Done *bool
}

// Engine applies edit intents to documents.
type Engine struct {
	Now   func() time.Time
	NewID func() string

	// DefaultRuleTitle is the title given to rules created by AddRule.
	DefaultRuleTitle string
}

// New returns an Engine using the wall clock (UTC) and random UUIDs.
func New() *Engine {
	return &Engine{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// AddRule prepends a new empty rule.
func (e *Engine) AddRule(doc model.RuleBook) model.RuleBook {
	now := model.Stamp(e.Now())
	rule := model.Rule{
		ID:          e.NewID(),
		Title:       e.DefaultRuleTitle,
		Description: "",
		Points:      []model.Point{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rules := make([]model.Rule, 0, len(doc.Rules)+1)
	rules = append(rules, rule)
	rules = append(rules, doc.Rules...)

	doc.Rules = rules
	doc.Meta.UpdatedAt = now
	return doc
}

// UpdateRule merges patch into the rule with ruleID.
func (e *Engine) UpdateRule(doc model.RuleBook, ruleID string, patch RulePatch) model.RuleBook {
	return e.withRule(doc, ruleID, func(r model.Rule) model.Rule {
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		return r
	})
}

// DeleteRule removes the rule with ruleID.
func (e *Engine) DeleteRule(doc model.RuleBook, ruleID string) model.RuleBook {
	idx := doc.FindRule(ruleID)
	if idx < 0 {
		return doc
	}

	rules := make([]model.Rule, 0, len(doc.Rules)-1)
	rules = append(rules, doc.Rules[:idx]...)
	rules = append(rules, doc.Rules[idx+1:]...)

	doc.Rules = rules
	doc.Meta.UpdatedAt = model.Stamp(e.Now())
	return doc
}

// ReorderRules replaces the rule sequence with newOrder. The caller
// guarantees newOrder is a permutation of the current rules; it is not
// checked. The slice is copied so later changes by the caller cannot leak
// into the document.
func (e *Engine) ReorderRules(doc model.RuleBook, newOrder []model.Rule) model.RuleBook {
	doc.Rules = append(make([]model.Rule, 0, len(newOrder)), newOrder...)
	doc.Meta.UpdatedAt = model.Stamp(e.Now())
	return doc
}

// AddPoint appends a new empty point to the rule with ruleID.
func (e *Engine) AddPoint(doc model.RuleBook, ruleID string) model.RuleBook {
	return e.withRule(doc, ruleID, func(r model.Rule) model.Rule {
		points := make([]model.Point, 0, len(r.Points)+1)
		points = append(points, r.Points...)
		points = append(points, model.Point{ID: e.NewID(), Text: "", Done: false})
		r.Points = points
		return r
	})
}

// UpdatePoint merges patch into the point pointID of rule ruleID.
func (e *Engine) UpdatePoint(doc model.RuleBook, ruleID, pointID string, patch PointPatch) model.RuleBook {
	return e.withPoint(doc, ruleID, pointID, func(r model.Rule, idx int) model.Rule {
		points := append([]model.Point(nil), r.Points...)
		p := points[idx]
		if patch.Text != nil {
			p.Text = *patch.Text
		}
		if patch.Done != nil {
			p.Done = *patch.Done
		}
		points[idx] = p
		r.Points = points
		return r
	})
}

// DeletePoint removes point pointID from rule ruleID.
func (e *Engine) DeletePoint(doc model.RuleBook, ruleID, pointID string) model.RuleBook {
	return e.withPoint(doc, ruleID, pointID, func(r model.Rule, idx int) model.Rule {
		points := make([]model.Point, 0, len(r.Points)-1)
		points = append(points, r.Points[:idx]...)
		points = append(points, r.Points[idx+1:]...)
		r.Points = points
		return r
	})
}

// ReorderPoints replaces the points of rule ruleID with newOrder, which is
// copied and not checked.
func (e *Engine) ReorderPoints(doc model.RuleBook, ruleID string, newOrder []model.Point) model.RuleBook {
	return e.withRule(doc, ruleID, func(r model.Rule) model.Rule {
		r.Points = append(make([]model.Point, 0, len(newOrder)), newOrder...)
		return r
	})
}

// withRule replaces the rule with ruleID by fn(rule), refreshing the rule
// and document timestamps. The rules slice is copied; untouched rules are
// shared with the previous document, which is safe because no operation
// writes into an existing slice.
func (e *Engine) withRule(doc model.RuleBook, ruleID string, fn func(model.Rule) model.Rule) model.RuleBook {
	idx := doc.FindRule(ruleID)
	if idx < 0 {
		return doc
	}

	now := model.Stamp(e.Now())
	rules := append([]model.Rule(nil), doc.Rules...)
	r := fn(rules[idx])
	r.UpdatedAt = now
	rules[idx] = r

	doc.Rules = rules
	doc.Meta.UpdatedAt = now
	return doc
}

func (e *Engine) withPoint(doc model.RuleBook, ruleID, pointID string, fn func(model.Rule, int) model.Rule) model.RuleBook {
	rule, ok := doc.Rule(ruleID)
	if !ok {
		return doc
	}
	idx := rule.FindPoint(pointID)
	if idx < 0 {
		return doc
	}
	return e.withRule(doc, ruleID, func(r model.Rule) model.Rule {
		return fn(r, idx)
	})
}
