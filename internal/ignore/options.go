package ignore

import (
	"io/fs"
	"time"

	"github.com/bethropolis/ainativeignore/internal/utils"
)

// Option functions for configuration
type Option func(*Engine)

// WithLogger sets the logger; messages are prefixed with "ignore: ".
func WithLogger(logger utils.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = utils.WithPrefix(logger, "ignore: ")
		}
	}
}

// WithClock replaces time.Now for expiry computation and comparison.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithFS replaces the project file system (default os.DirFS(root)). Paths
// passed to it are root-relative and slash-separated.
func WithFS(fsys fs.FS) Option {
	return func(e *Engine) {
		if fsys != nil {
			e.fsys = fsys
		}
	}
}

// WithAuditLimit changes how many audit entries are retained.
func WithAuditLimit(limit int) Option {
	return func(e *Engine) {
		e.auditLimit = limit
	}
}
