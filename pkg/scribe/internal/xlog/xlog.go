// Package xlog is a tiny timestamped file logger, one instance per named
// reconciler rather than a single process-global file.
package xlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger writes timestamped lines to an optional file. The zero value is a
// valid no-op logger (Log is safe to call before Enable).
type Logger struct {
	mu   sync.Mutex
	name string
	file *os.File
}

// New returns a disabled logger identified by name (used as a log-line
// prefix once enabled).
func New(name string) *Logger {
	return &Logger{name: name}
}

// Enable opens path for append-or-create and starts writing to it.
// Calling Enable twice on an already-enabled logger is a no-op.
func (l *Logger) Enable(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("xlog: open %s: %w", path, err)
	}
	l.file = f
	l.writeLocked("=== %s log started ===", l.name)
	return nil
}

// Log writes a formatted message if the logger is enabled; otherwise it is
// a silent no-op, so call sites never need to guard on Enable having run.
func (l *Logger) Log(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeLocked(format, args...)
}

func (l *Logger) writeLocked(format string, args ...any) {
	if l.file == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.file, "[%s] %s: %s\n", ts, l.name, msg)
	l.file.Sync()
}

// Close closes the underlying file, if any. Safe to call on a disabled
// logger.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.writeLocked("=== %s log closed ===", l.name)
	err := l.file.Close()
	l.file = nil
	return err
}
