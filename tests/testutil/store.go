package testutil

import (
	"testing"

	"github.com/nhle/rulebook/internal/store"
)

// NewTestLibrary creates an in-memory export library with all migrations
// applied. It automatically closes the library when the test completes.
func NewTestLibrary(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test library: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test library: %v", err)
		}
	})

	return s
}
