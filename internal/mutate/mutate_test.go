package mutate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/rulebook/internal/model"
)

var (
	t0 = "2025-11-29T00:00:00.000Z"
	t1 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s1 = "2026-01-02T03:04:05.000Z"
)

func newTestEngine() *Engine {
	n := 0
	return &Engine{
		Now: func() time.Time { return t1 },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func sampleBook() model.RuleBook {
	return model.RuleBook{
		Meta: model.Meta{Title: "Book", Version: "1", CreatedAt: t0, UpdatedAt: t0},
		Rules: []model.Rule{
			{
				ID: "r1", Title: "Health", CreatedAt: t0, UpdatedAt: t0,
				Points: []model.Point{{ID: "p1", Text: "sleep"}, {ID: "p2", Text: "eat"}},
			},
			{
				ID: "r2", Title: "Learning", CreatedAt: t0, UpdatedAt: t0,
				Points: []model.Point{{ID: "p3", Text: "read"}},
			},
		},
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestAddRule_PrependsEmptyRule(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.AddRule(before)

	require.Len(t, after.Rules, 3)
	r := after.Rules[0]
	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, "", r.Title)
	assert.Equal(t, "", r.Description)
	assert.NotNil(t, r.Points)
	assert.Empty(t, r.Points)
	assert.Equal(t, s1, r.CreatedAt)
	assert.Equal(t, s1, r.UpdatedAt)
	assert.Equal(t, s1, after.Meta.UpdatedAt)

	// The input document is untouched.
	assert.Len(t, before.Rules, 2)
	assert.Equal(t, t0, before.Meta.UpdatedAt)
}

func TestAddRule_DefaultTitle(t *testing.T) {
	e := newTestEngine()
	e.DefaultRuleTitle = "New Rule"

	after := e.AddRule(sampleBook())

	assert.Equal(t, "New Rule", after.Rules[0].Title)
}

func TestUpdateRule(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.UpdateRule(before, "r2", RulePatch{Description: strPtr("study")})

	assert.Equal(t, "Learning", after.Rules[1].Title)
	assert.Equal(t, "study", after.Rules[1].Description)
	assert.Equal(t, s1, after.Rules[1].UpdatedAt)
	assert.Equal(t, t0, after.Rules[0].UpdatedAt)
	assert.Equal(t, s1, after.Meta.UpdatedAt)
	assert.Equal(t, "", before.Rules[1].Description)
}

func TestDeleteRule(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.DeleteRule(before, "r1")

	require.Len(t, after.Rules, 1)
	assert.Equal(t, "r2", after.Rules[0].ID)
	assert.Equal(t, s1, after.Meta.UpdatedAt)
	assert.Len(t, before.Rules, 2)
	assert.Equal(t, "r1", before.Rules[0].ID)
}

func TestReorderRules_CopiesInput(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()
	order := []model.Rule{before.Rules[1], before.Rules[0]}

	after := e.ReorderRules(before, order)
	order[0].Title = "mutated by caller"

	assert.Equal(t, "r2", after.Rules[0].ID)
	assert.Equal(t, "Learning", after.Rules[0].Title)
	assert.Equal(t, s1, after.Meta.UpdatedAt)
	assert.Equal(t, "r1", before.Rules[0].ID)
}

func TestAddPoint(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.AddPoint(before, "r2")

	require.Len(t, after.Rules[1].Points, 2)
	assert.Equal(t, model.Point{ID: "id-1", Text: "", Done: false}, after.Rules[1].Points[1])
	assert.Equal(t, s1, after.Rules[1].UpdatedAt)
	assert.Len(t, before.Rules[1].Points, 1)
}

func TestUpdatePoint(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.UpdatePoint(before, "r1", "p2", PointPatch{Text: strPtr("eat well"), Done: boolPtr(true)})

	assert.Equal(t, "eat well", after.Rules[0].Points[1].Text)
	assert.True(t, after.Rules[0].Points[1].Done)
	assert.Equal(t, s1, after.Rules[0].UpdatedAt)
	assert.Equal(t, "eat", before.Rules[0].Points[1].Text)
	assert.False(t, before.Rules[0].Points[1].Done)
}

func TestDeletePoint(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.DeletePoint(before, "r1", "p1")

	require.Len(t, after.Rules[0].Points, 1)
	assert.Equal(t, "p2", after.Rules[0].Points[0].ID)
	assert.Equal(t, s1, after.Rules[0].UpdatedAt)
	assert.Len(t, before.Rules[0].Points, 2)
}

func TestReorderPoints_RefreshesTimestamps(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()
	order := []model.Point{before.Rules[0].Points[1], before.Rules[0].Points[0]}

	after := e.ReorderPoints(before, "r1", order)

	assert.Equal(t, "p2", after.Rules[0].Points[0].ID)
	assert.Equal(t, s1, after.Rules[0].UpdatedAt)
	assert.Equal(t, s1, after.Meta.UpdatedAt)
	assert.Equal(t, "p1", before.Rules[0].Points[0].ID)
}

func TestMissingIDsAreNoOps(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	tests := []struct {
		name string
		fn   func(model.RuleBook) model.RuleBook
	}{
		{"update rule", func(d model.RuleBook) model.RuleBook {
			return e.UpdateRule(d, "nope", RulePatch{Title: strPtr("x")})
		}},
		{"delete rule", func(d model.RuleBook) model.RuleBook { return e.DeleteRule(d, "nope") }},
		{"add point", func(d model.RuleBook) model.RuleBook { return e.AddPoint(d, "nope") }},
		{"update point unknown rule", func(d model.RuleBook) model.RuleBook {
			return e.UpdatePoint(d, "nope", "p1", PointPatch{Text: strPtr("x")})
		}},
		{"update point unknown point", func(d model.RuleBook) model.RuleBook {
			return e.UpdatePoint(d, "r1", "nope", PointPatch{Text: strPtr("x")})
		}},
		{"delete point unknown point", func(d model.RuleBook) model.RuleBook {
			return e.DeletePoint(d, "r1", "nope")
		}},
		{"reorder points unknown rule", func(d model.RuleBook) model.RuleBook {
			return e.ReorderPoints(d, "nope", nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, before, tt.fn(before))
		})
	}
}

func TestDeletePoint_UnknownIDLeavesSiblingsIntact(t *testing.T) {
	e := newTestEngine()
	before := sampleBook()

	after := e.DeletePoint(before, "r2", "p1")

	assert.Equal(t, before.Rules[0].Points, after.Rules[0].Points)
	assert.Equal(t, before.Rules[1].Points, after.Rules[1].Points)
}

func TestMoveRule(t *testing.T) {
	doc := sampleBook()

	order, ok := MoveRule(doc, "r2", -1)
	require.True(t, ok)
	assert.Equal(t, "r2", order[0].ID)
	assert.Equal(t, "r1", order[1].ID)

	_, ok = MoveRule(doc, "r1", -1)
	assert.False(t, ok)
	_, ok = MoveRule(doc, "missing", 1)
	assert.False(t, ok)
}

func TestMovePoint(t *testing.T) {
	doc := sampleBook()

	order, ok := MovePoint(doc, "r1", "p1", 1)
	require.True(t, ok)
	assert.Equal(t, []string{"p2", "p1"}, []string{order[0].ID, order[1].ID})
	assert.Equal(t, "p1", doc.Rules[0].Points[0].ID)

	_, ok = MovePoint(doc, "r1", "p2", 1)
	assert.False(t, ok)
}
