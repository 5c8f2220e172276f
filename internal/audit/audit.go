// Package audit keeps a bounded, append-only record of access decisions
package audit

import (
	"sync"
	"time"
)

// DefaultLimit is the number of entries kept before the oldest are dropped.
const DefaultLimit = 10000

// Action is what happened to a path.
type Action string

const (
	ActionAccess Action = "access"
	ActionIgnore Action = "ignore"
	ActionBlock  Action = "block"
)

// Entry is one recorded decision. Entries are never modified once appended.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Action    Action    `json:"action"`
	Rule      string    `json:"rule,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Log is a fixed-capacity ring of entries. It is safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	buf   []Entry
	start int
	size  int
}

// New creates a Log holding at most limit entries.
func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{buf: make([]Entry, limit)}
}

// Append records e, dropping the oldest entry when the log is full.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := (l.start + l.size) % len(l.buf)
	l.buf[idx] = e
	if l.size < len(l.buf) {
		l.size++
		return
	}
	l.start = (l.start + 1) % len(l.buf)
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Limit returns the capacity.
func (l *Log) Limit() int {
	return len(l.buf)
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = make([]Entry, len(l.buf))
	l.start, l.size = 0, 0
}
