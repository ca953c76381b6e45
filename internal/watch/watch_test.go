package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()

	w, err := New(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rules": []}`), 0o644))

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"rules": [{}]}`), 0o644))

	select {
	case change := <-w.Changes:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, change.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	select {
	case change := <-w.Changes:
		t.Errorf("unexpected change event: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")

	w := startWatcher(t, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"rules": []}`), 0o644))
	}

	select {
	case <-w.Changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	select {
	case change := <-w.Changes:
		t.Errorf("burst produced a second event: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWaitForChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")

	w := startWatcher(t, path)
	cmd := w.WaitForChange()

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	got := make(chan any, 1)
	go func() { got <- cmd() }()

	select {
	case msg := <-got:
		_, ok := msg.(FileChangedMsg)
		assert.True(t, ok, "got %T", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for WaitForChange")
	}
}
