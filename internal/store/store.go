// Package store keeps the export library: a local SQLite archive of rule
// book snapshots the user explicitly exported. The working document is never
// written here implicitly.
package store

import (
	"context"
	"errors"

	"github.com/nhle/rulebook/internal/model"
)

// ErrNotFound is returned when an export ID does not exist.
var ErrNotFound = errors.New("export not found")

// DefaultListLimit caps ListExports when the caller passes no limit.
const DefaultListLimit = 100

// Library defines the persistence interface for exported snapshots.
type Library interface {
	// SaveExport stores e, filling ID and ExportedAt when empty, and
	// returns the stored record.
	SaveExport(ctx context.Context, e model.Export) (model.Export, error)

	// ListExports returns the newest exports first, without bodies.
	ListExports(ctx context.Context, limit int) ([]model.Export, error)

	GetExport(ctx context.Context, id string) (*model.Export, error)
	DeleteExport(ctx context.Context, id string) error
	Close() error
}
