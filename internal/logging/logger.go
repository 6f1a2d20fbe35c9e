package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmarchal/planboard/internal/config"
)

// Logger appends timestamped lines to .planboard/logs/planboard.log so users
// can inspect failures after the TUI session has closed. Scoped children tag
// their lines with a component name.
type Logger struct {
	file  *os.File
	scope string
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.PlanboardDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "planboard.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f}, nil
}

// WithScope returns a logger writing to the same file with lines tagged by
// the given component name. Safe on a nil receiver.
func (l *Logger) WithScope(scope string) *Logger {
	if l == nil || l.file == nil {
		return l
	}
	return &Logger{file: l.file, scope: scope}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	if l.scope != "" {
		line = l.scope + ": " + line
	}
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
}
