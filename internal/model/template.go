package model

func order(n float64) *float64 { return &n }

// Template returns the built-in starter document used when the session is
// not started from a file. Each call returns a fresh value.
func Template() RuleBook {
	return RuleBook{
		Meta: Meta{
			Title:     "My Rule Book",
			Version:   "1.0.0",
			CreatedAt: "2025-11-29T00:00:00.000Z",
			UpdatedAt: "2025-11-29T00:00:00.000Z",
		},
		Rules: []Rule{
			{
				ID:          "rule-1",
				Title:       "Health",
				Description: "Daily habits for physical and mental well-being",
				Order:       order(1),
				CreatedAt:   "2025-11-29T00:01:00.000Z",
				UpdatedAt:   "2025-11-29T00:01:00.000Z",
				Points: []Point{
					{ID: "p1", Text: "Eat a balanced meal every 4–5 hours", Order: order(1)},
					{ID: "p2", Text: "Exercise 30 min (cardio/strength)", Order: order(2)},
					{ID: "p3", Text: "Sleep 7–8 hours nightly", Order: order(3)},
				},
			},
			{
				ID:          "rule-2",
				Title:       "Learning",
				Description: "How I approach studying and skill growth",
				Order:       order(2),
				CreatedAt:   "2025-11-29T00:02:00.000Z",
				UpdatedAt:   "2025-11-29T00:02:00.000Z",
				Points: []Point{
					{ID: "p4", Text: "Study in 25/5 Pomodoro blocks", Order: order(1)},
				},
			},
		},
	}
}
