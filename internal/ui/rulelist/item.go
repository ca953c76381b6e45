package rulelist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/search"
	"github.com/nhle/rulebook/internal/theme"
)

// Row is one line of the list: a rule, or one of an expanded rule's points.
type Row struct {
	Rule     model.Rule
	Point    *model.Point
	Expanded bool
	Query    string
}

// IsPoint reports whether the row shows a point.
func (r Row) IsPoint() bool { return r.Point != nil }

// PointID returns the point's ID, or "" for a rule row.
func (r Row) PointID() string {
	if r.Point == nil {
		return ""
	}
	return r.Point.ID
}

// FilterValue returns the string used by bubbles/list filtering, which this
// view disables in favor of the live query.
func (r Row) FilterValue() string {
	if r.Point != nil {
		return r.Point.Text
	}
	return r.Rule.Title
}

// Flatten turns rules into rows. Points of expanded rules follow their rule;
// while a query is active, points that match it are shown even when the rule
// is collapsed.
func Flatten(rules []model.Rule, expanded map[string]bool, query string) []Row {
	rows := make([]Row, 0, len(rules))
	for _, r := range rules {
		open := expanded[r.ID]
		rows = append(rows, Row{Rule: r, Expanded: open, Query: query})
		for i := range r.Points {
			p := r.Points[i]
			if open || search.MatchesPoint(p, query) {
				rows = append(rows, Row{Rule: r, Point: &p, Expanded: open, Query: query})
			}
		}
	}
	return rows
}

// ItemDelegate implements list.ItemDelegate for rule and point rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}
	isSelected := index == m.Index()

	var line string
	if row.IsPoint() {
		line = renderPoint(row)
	} else {
		line = renderRule(row)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func renderRule(row Row) string {
	marker := "▸"
	if row.Expanded {
		marker = "▾"
	}

	title := row.Rule.Title
	if strings.TrimSpace(title) == "" {
		title = theme.DimmedStyle.Render("(untitled)")
	}

	line := fmt.Sprintf("%s %s %s", marker, title, theme.DimmedStyle.Render(pointSummary(row.Rule)))
	if row.Rule.Description != "" {
		line += "  " + theme.DimmedStyle.Render(firstLine(row.Rule.Description))
	}
	if row.Query != "" && search.MatchesRule(row.Rule, row.Query) {
		line = theme.MatchStyle.Render("•") + " " + line
	}
	return line
}

func renderPoint(row Row) string {
	p := row.Point
	box := "[ ]"
	if p.Done {
		box = "[x]"
	}

	text := p.Text
	if strings.TrimSpace(text) == "" {
		text = "(empty)"
	}

	line := theme.DoneStyle(p.Done).Render(box + " " + text)
	if search.MatchesPoint(*p, row.Query) {
		line = theme.MatchStyle.Render("•") + " " + line
	} else {
		line = "  " + line
	}
	return theme.PointStyle.Render(line)
}

func pointSummary(r model.Rule) string {
	done := 0
	for _, p := range r.Points {
		if p.Done {
			done++
		}
	}
	if len(r.Points) == 1 {
		return fmt.Sprintf("(%d/1 point)", done)
	}
	return fmt.Sprintf("(%d/%d points)", done, len(r.Points))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
