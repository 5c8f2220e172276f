// Package walker handles directory traversal for scans
package walker

import (
	"io/fs"
	"sync"
)

// Matcher decides whether a root-relative path is excluded from the walk.
type Matcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// WalkFunc is called for every regular file that survives the matcher.
type WalkFunc func(relativePath string, d fs.DirEntry) error

// SkippedReason clarifies why a file/directory was not visited.
type SkippedReason string

const (
	ReasonIgnoredRule       SkippedReason = "Ignored (Rule)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError  SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedPathError  SkippedReason = "Skipped (Path Calculation Error)"
	ReasonSkippedNotRegular SkippedReason = "Skipped (Not a Regular File)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker collects skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns a copy of the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	out := make([]SkippedItem, len(st.items))
	copy(out, st.items)
	return out
}
