package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/store"
	"github.com/nhle/rulebook/tests/testutil"
)

func TestMigrations_Applied(t *testing.T) {
	s := testutil.NewTestLibrary(t)

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	first, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = first.SaveExport(context.Background(), model.Export{Title: "kept", Body: "{}"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	list, err := second.ListExports(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Title)
}

func TestSaveAndGetExport(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestLibrary(t)

	e, err := store.NewExport(model.Template())
	require.NoError(t, err)

	saved, err := s.SaveExport(ctx, e)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.ExportedAt.IsZero())

	got, err := s.GetExport(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Rule Book", got.Title)
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, 2, got.RuleCount)
	assert.Equal(t, 4, got.PointCount)
	assert.Equal(t, e.Body, got.Body)
	assert.True(t, saved.ExportedAt.Equal(got.ExportedAt))
}

func TestSaveExport_RequiresBody(t *testing.T) {
	s := testutil.NewTestLibrary(t)

	_, err := s.SaveExport(context.Background(), model.Export{Title: "empty"})
	assert.Error(t, err)
}

func TestListExports_NewestFirstWithoutBody(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestLibrary(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[title]
		_, err := s.SaveExport(ctx, model.Export{
			ID:         string(rune('a' + i)),
			Title:      title,
			ExportedAt: base.Add(offset),
			Body:       `{"rules": []}`,
		})
		require.NoError(t, err)
	}

	list, err := s.ListExports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "mid", list[1].Title)
	assert.Equal(t, "old", list[2].Title)
	for _, e := range list {
		assert.Empty(t, e.Body)
	}

	limited, err := s.ListExports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListExports_EmptyIsNotNil(t *testing.T) {
	list, err := testutil.NewTestLibrary(t).ListExports(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetExport_NotFound(t *testing.T) {
	_, err := testutil.NewTestLibrary(t).GetExport(context.Background(), "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestDeleteExport(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestLibrary(t)

	saved, err := s.SaveExport(ctx, model.Export{Title: "x", Body: "{}"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteExport(ctx, saved.ID))

	_, err = s.GetExport(ctx, saved.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteExport(ctx, saved.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoadDocument(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestLibrary(t)

	e, err := store.NewExport(model.Template())
	require.NoError(t, err)
	saved, err := s.SaveExport(ctx, e)
	require.NoError(t, err)

	doc, err := store.LoadDocument(ctx, s, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Template(), doc)
}

func TestLoadDocument_BadBody(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestLibrary(t)

	saved, err := s.SaveExport(ctx, model.Export{Title: "bad", Body: `{"meta": {}}`})
	require.NoError(t, err)

	_, err = store.LoadDocument(ctx, s, saved.ID)
	assert.Error(t, err)
}
