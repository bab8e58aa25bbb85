package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPath is the log file path, relative to the working directory (project root when run via go run ./cmd/playground).
const DefaultPath = "logs/playground.txt"

// maxLines bounds the in-memory history shown by the console.
const maxLines = 500

// Logger stores lines of text in memory and appends them to a file on disk.
// An optional mirror (stderr for the CLI, a buffer in tests) receives every line too.
type Logger struct {
	mu     sync.Mutex
	path   string
	mirror io.Writer
	lines  []string
	now    func() time.Time
}

// New returns a Logger writing to path and ensures its directory exists. An empty path keeps lines in memory only.
func New(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{path: path, lines: make([]string, 0), now: time.Now}
}

// SetMirror sends every logged line to w as well. nil disables mirroring.
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	l.mirror = w
	l.mu.Unlock()
}

// Log appends a line to the logger and to the log file. Each entry is prefixed with [timestamp].
func (l *Logger) Log(line string) {
	stamped := "[" + l.now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-maxLines:]...)
	}
	mirror := l.mirror
	l.mu.Unlock()

	if mirror != nil {
		_, _ = io.WriteString(mirror, stamped+"\n")
	}
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func (l *Logger) Info(format string, args ...any) {
	l.Log("INFO " + fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.Log("WARN " + fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.Log("ERROR " + fmt.Sprintf(format, args...))
}

// Lines returns a copy of the stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
