package model

import "time"

// TimeLayout is the millisecond UTC form used for document timestamps.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Stamp formats t for a document timestamp field.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Point is a single free-text entry belonging to exactly one rule.
type Point struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`

	// Order is an optional hint carried through import/export. Slice
	// position is the authoritative display order.
	Order *float64 `json:"order,omitempty"`
}

// Rule is a titled, described, ordered collection of points.
type Rule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       *float64 `json:"order,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Points      []Point  `json:"points"`
}

// Meta holds document-level metadata. Timestamps are kept as the text
// they were imported with so export writes them back unchanged.
type Meta struct {
	Title     string `json:"title"`
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// RuleBook is the document root. Exactly one is current per session.
type RuleBook struct {
	Meta  Meta   `json:"meta"`
	Rules []Rule `json:"rules"`
}

// FindRule returns the index of the rule with the given ID, or -1.
func (b RuleBook) FindRule(id string) int {
	for i := range b.Rules {
		if b.Rules[i].ID == id {
			return i
		}
	}
	return -1
}

// Rule returns the rule with the given ID.
func (b RuleBook) Rule(id string) (Rule, bool) {
	i := b.FindRule(id)
	if i < 0 {
		return Rule{}, false
	}
	return b.Rules[i], true
}

// PointCount returns the total number of points across all rules.
func (b RuleBook) PointCount() int {
	n := 0
	for _, r := range b.Rules {
		n += len(r.Points)
	}
	return n
}

// FindPoint returns the index of the point with the given ID, or -1.
func (r Rule) FindPoint(id string) int {
	for i := range r.Points {
		if r.Points[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document that shares no slices or
// pointers with b.
func (b RuleBook) Clone() RuleBook {
	cp := b
	cp.Rules = make([]Rule, len(b.Rules))
	for i, r := range b.Rules {
		cp.Rules[i] = r.Clone()
	}
	return cp
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	cp := r
	cp.Order = cloneOrder(r.Order)
	cp.Points = make([]Point, len(r.Points))
	for i, p := range r.Points {
		cp.Points[i] = p.Clone()
	}
	return cp
}

// Clone returns a copy of the point.
func (p Point) Clone() Point {
	cp := p
	cp.Order = cloneOrder(p.Order)
	return cp
}

func cloneOrder(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
