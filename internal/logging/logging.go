// Package logging provides a leveled file logger with explicit
// initialization and teardown. The TUI owns the terminal, so all
// diagnostics go to a log file under the app config directory. A nil
// *Logger is valid and discards everything, which keeps tests quiet.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level controls which entries are written.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a config/env string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// Logger appends timestamped lines to a single file. Safe for use from
// worker goroutines.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	level Level
}

// Init opens (creating if needed) the log file at path. The LAZYDBM_LOG
// environment variable overrides the configured level.
func Init(path string, level Level) (*Logger, error) {
	if env := os.Getenv("LAZYDBM_LOG"); env != "" {
		level = ParseLevel(env)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := &Logger{file: f, level: level}
	l.Infof("logging initialized: %s", path)
	return l, nil
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if l == nil || level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(l.file, "%s [%s] %s\n", ts, level, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.write(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.write(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.write(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.write(LevelDebug, format, args...) }
