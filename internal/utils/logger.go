// Package utils provides common utilities shared across packages
package utils

import "fmt"

// Logger defines a common logging interface used throughout the application
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoopLogger is a logger implementation that does nothing
type NoopLogger struct{}

func (l NoopLogger) Debug(format string, args ...interface{}) {}
func (l NoopLogger) Info(format string, args ...interface{})  {}
func (l NoopLogger) Warn(format string, args ...interface{})  {}
func (l NoopLogger) Error(format string, args ...interface{}) {}

// prefixed tags every message with a component name, e.g. "ignore: ".
type prefixed struct {
	base   Logger
	prefix string
}

// WithPrefix wraps a logger so that every message starts with prefix.
// A nil base yields a NoopLogger.
func WithPrefix(base Logger, prefix string) Logger {
	if base == nil {
		return NoopLogger{}
	}
	if _, ok := base.(NoopLogger); ok {
		return base
	}
	return &prefixed{base: base, prefix: prefix}
}

func (p *prefixed) Debug(format string, args ...interface{}) {
	p.base.Debug("%s%s", p.prefix, fmt.Sprintf(format, args...))
}

func (p *prefixed) Info(format string, args ...interface{}) {
	p.base.Info("%s%s", p.prefix, fmt.Sprintf(format, args...))
}

func (p *prefixed) Warn(format string, args ...interface{}) {
	p.base.Warn("%s%s", p.prefix, fmt.Sprintf(format, args...))
}

func (p *prefixed) Error(format string, args ...interface{}) {
	p.base.Error("%s%s", p.prefix, fmt.Sprintf(format, args...))
}
