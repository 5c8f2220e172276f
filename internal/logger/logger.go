// Package logger provides a leveled logger with optional colored prefixes
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel defines log severity levels
type LogLevel int

const (
	// Log levels from least to most restrictive
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the canonical upper-case name of the level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "NONE"
	}
}

// Logger writes leveled messages to an io.Writer. It is safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
	level     LogLevel
	now       func() time.Time
}

// New creates a new Logger with the given settings
func New(out io.Writer, level LogLevel, useColors bool) *Logger {
	return &Logger{
		out:       out,
		useColors: useColors,
		level:     level,
		now:       time.Now,
	}
}

// WithLevel sets the log level and returns the logger
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
	return l
}

// SetLevel sets the log level from its textual name
func (l *Logger) SetLevel(levelStr string) {
	l.WithLevel(ParseLevel(levelStr))
}

// Level returns the active level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Writer returns the destination of log messages
func (l *Logger) Writer() io.Writer {
	return l.out
}

// ParseLevel converts a string level to LogLevel. Unknown values map to Info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, color.CyanString, format, args...)
}

// Info logs an informational message (standard level)
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, color.BlueString, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, color.YellowString, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, color.RedString, format, args...)
}

func (l *Logger) log(level LogLevel, paint func(string, ...interface{}) string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level > level {
		return
	}
	prefix := level.String()
	if l.useColors {
		prefix = paint(prefix)
	}
	fmt.Fprintf(l.out, "[%s %s] %s\n", l.now().Format("15:04:05.000"), prefix, fmt.Sprintf(format, args...))
}
