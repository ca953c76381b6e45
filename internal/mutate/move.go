package mutate

import "github.com/nhle/rulebook/internal/model"

// MoveRule returns the rule order that results from moving ruleID by delta
// positions (negative is up). The second result is false when the rule is
// unknown or the move would leave the sequence unchanged.
func MoveRule(doc model.RuleBook, ruleID string, delta int) ([]model.Rule, bool) {
	idx := doc.FindRule(ruleID)
	return move(doc.Rules, idx, delta)
}

// MovePoint is MoveRule for the points of a single rule.
func MovePoint(doc model.RuleBook, ruleID, pointID string, delta int) ([]model.Point, bool) {
	rule, ok := doc.Rule(ruleID)
	if !ok {
		return nil, false
	}
	return move(rule.Points, rule.FindPoint(pointID), delta)
}

func move[T any](items []T, idx, delta int) ([]T, bool) {
	if idx < 0 || delta == 0 {
		return nil, false
	}
	target := idx + delta
	if target < 0 || target >= len(items) {
		return nil, false
	}

	out := make([]T, 0, len(items))
	item := items[idx]
	for i, it := range items {
		if i == idx {
			continue
		}
		out = append(out, it)
	}
	out = append(out[:target], append([]T{item}, out[target:]...)...)
	return out, true
}
