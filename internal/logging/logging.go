// Package logging builds the zerolog logger used by the editor. The
// terminal belongs to the TUI, so logs go to a file (or any writer).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const permission = 0o644

// Builder assembles a Logger step by step.
type Builder struct {
	writer io.Writer
	path   string
	level  string
}

// Logger bundles the zerolog logger with the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New starts a builder. With no destination configured Make returns a
// logger that discards everything.
func New() *Builder {
	return &Builder{}
}

// FromPath writes JSON lines to path, creating parent directories.
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

// FromWriter writes to w. A path set with FromPath takes precedence.
func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// Level sets the minimum level by name ("debug", "info", "warn", ...).
// An empty name means info.
func (b *Builder) Level(level string) *Builder {
	b.level = level
	return b
}

// Make opens the destination and returns the logger.
func (b *Builder) Make() (*Logger, error) {
	level := zerolog.InfoLevel
	if b.level != "" {
		parsed, err := zerolog.ParseLevel(b.level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", b.level, err)
		}
		level = parsed
	}

	l := &Logger{}
	w := b.writer
	if b.path != "" {
		if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		l.Logger = zerolog.Nop()
		return l, nil
	}

	l.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close closes the log file, if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
