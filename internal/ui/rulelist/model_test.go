package rulelist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/rulebook/internal/keys"
	"github.com/nhle/rulebook/internal/model"
)

func sampleRules() []model.Rule {
	return []model.Rule{
		{ID: "r1", Title: "Health", Points: []model.Point{
			{ID: "p1", Text: "Sleep 8 hours"},
			{ID: "p2", Text: "Walk daily", Done: true},
		}},
		{ID: "r2", Title: "Learning", Points: []model.Point{
			{ID: "p3", Text: "Read"},
		}},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetRules(sampleRules())
	return m
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		expanded map[string]bool
		query    string
		want     []string
	}{
		{name: "collapsed", want: []string{"r1", "r2"}},
		{name: "one expanded", expanded: map[string]bool{"r1": true}, want: []string{"r1", "r1/p1", "r1/p2", "r2"}},
		{name: "query shows matching points", query: "walk", want: []string{"r1", "r1/p2", "r2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Flatten(sampleRules(), tt.expanded, tt.query)

			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r.Rule.ID
				if r.IsPoint() {
					got[i] += "/" + r.PointID()
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnterExpandsRule(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Len(t, m.Rows(), 4)
	ruleID, pointID := m.Selected()
	assert.Equal(t, "r1", ruleID)
	assert.Equal(t, "", pointID)
}

func TestKeysEmitIntents(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, NewRuleMsg{}, cmd())

	_, cmd = m.Update(runes("e"))
	require.NotNil(t, cmd)
	assert.Equal(t, EditRuleMsg{RuleID: "r1"}, cmd())

	_, cmd = m.Update(runes("a"))
	require.NotNil(t, cmd)
	assert.Equal(t, AddPointMsg{RuleID: "r1"}, cmd())

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteRequestMsg{RuleID: "r1", Label: "Health"}, cmd())

	_, cmd = m.Update(runes("J"))
	require.NotNil(t, cmd)
	assert.Equal(t, MoveMsg{RuleID: "r1", Delta: 1}, cmd())
}

func TestPointRowIntents(t *testing.T) {
	m := newTestModel(t)
	m.Select("r1", "p2")

	ruleID, pointID := m.Selected()
	require.Equal(t, "r1", ruleID)
	require.Equal(t, "p2", pointID)

	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, TogglePointMsg{RuleID: "r1", PointID: "p2"}, cmd())

	_, cmd = m.Update(runes("e"))
	require.NotNil(t, cmd)
	assert.Equal(t, EditPointMsg{RuleID: "r1", PointID: "p2"}, cmd())

	_, cmd = m.Update(runes("K"))
	require.NotNil(t, cmd)
	assert.Equal(t, MoveMsg{RuleID: "r1", PointID: "p2", Delta: -1}, cmd())

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteRequestMsg{RuleID: "r1", PointID: "p2", Label: "Walk daily"}, cmd())
}

func TestToggleDoneIgnoredOnRuleRow(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(runes("x"))

	assert.Nil(t, cmd)
}

func TestSetRulesKeepsSelection(t *testing.T) {
	m := newTestModel(t)
	m.Select("r2", "")

	rules := sampleRules()
	rules = append([]model.Rule{{ID: "r0", Title: "New"}}, rules...)
	m.SetRules(rules)

	ruleID, _ := m.Selected()
	assert.Equal(t, "r2", ruleID)
}

func TestSetRulesClampsWhenSelectionRemoved(t *testing.T) {
	m := newTestModel(t)
	m.Select("r2", "")

	m.SetRules(sampleRules()[:1])

	ruleID, _ := m.Selected()
	assert.Equal(t, "r1", ruleID)
}

func TestSearchModeEmitsQuery(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(runes("/"))
	require.True(t, m.Searching())

	m, cmd := m.Update(runes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, "r", m.Query())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "r", m.Query())

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, QueryChangedMsg{Query: ""}, cmd())
	assert.Equal(t, "", m.Query())
}

func TestSetExpandedAll(t *testing.T) {
	m := newTestModel(t)

	m.SetExpandedAll(true)
	assert.Len(t, m.Rows(), 5)

	m.SetExpandedAll(false)
	assert.Len(t, m.Rows(), 2)
}

func TestEmptyStateView(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetRules(nil)

	assert.Contains(t, m.View(), "No rules yet")
}
