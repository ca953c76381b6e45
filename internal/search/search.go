// Package search derives filtered views of a rule book from a live query.
package search

import (
	"strings"

	"github.com/nhle/rulebook/internal/model"
)

// Filter returns the rules whose title, description, or any point text
// contains query, case-insensitively, in document order. An empty query
// matches every rule. The document is not modified.
func Filter(doc model.RuleBook, query string) []model.Rule {
	q := strings.ToLower(query)
	out := make([]model.Rule, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesRule reports whether rule matches query under Filter's rules.
func MatchesRule(rule model.Rule, query string) bool {
	return matches(rule, strings.ToLower(query))
}

// MatchesPoint reports whether a point's own text contains query. The list
// view uses it to highlight which points made a rule match.
func MatchesPoint(p model.Point, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Text), strings.ToLower(query))
}

func matches(r model.Rule, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, p := range r.Points {
		if strings.Contains(strings.ToLower(p.Text), q) {
			return true
		}
	}
	return false
}
