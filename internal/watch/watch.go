// Package watch re-imports a rule book file when it changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Debounce is how long a file must stay quiet before a change is emitted.
const Debounce = 100 * time.Millisecond

// FileChangedMsg is a tea.Msg sent when the watched file was written or
// recreated.
type FileChangedMsg struct {
	Path string
}

// Watcher monitors a single file using fsnotify. Editors often replace a
// file instead of writing it, so the parent directory is watched and events
// are filtered by name.
type Watcher struct {
	Path    string
	Changes <-chan FileChangedMsg

	changes chan FileChangedMsg
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	ch := make(chan FileChangedMsg, 1)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		log:     log,
	}, nil
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.Path), err)
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

// WaitForChange returns a tea.Cmd that blocks until the next change.
// Call it again after handling a FileChangedMsg to keep listening.
func (w *Watcher) WaitForChange() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.Changes
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= Debounce {
				pending = time.Time{}
				w.emit()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Str("path", w.Path).Msg("watch error")
		}
	}
}

// emit queues a change. One queued change is enough: the app reads the
// file fresh, so a burst collapses into a single import.
func (w *Watcher) emit() {
	select {
	case w.changes <- FileChangedMsg{Path: w.Path}:
	default:
	}
}
