package model

import "time"

// Export is one manually exported snapshot kept in the export library.
type Export struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Version    string    `json:"version" db:"version"`
	RuleCount  int       `json:"rule_count" db:"rule_count"`
	PointCount int       `json:"point_count" db:"point_count"`
	ExportedAt time.Time `json:"exported_at" db:"exported_at"`

	// Body is the serialized document. List queries leave it empty.
	Body string `json:"body,omitempty" db:"body"`
}
