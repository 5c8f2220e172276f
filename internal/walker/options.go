package walker

import (
	"context"
	"strings"

	"github.com/bethropolis/ainativeignore/internal/utils"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger  utils.Logger
	Context context.Context
	// PathPrefix is prepended to every relative path handed to the matcher
	// and the callback, so a sub-directory walk reports project-relative paths.
	PathPrefix string
	// IgnoreFiles also runs the matcher on files, not only directories.
	IgnoreFiles bool
}

func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:  utils.NoopLogger{},
		Context: context.Background(),
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithPathPrefix reports paths as prefix/relative. An empty or "." prefix is a no-op.
func WithPathPrefix(prefix string) Option {
	return func(opts *WalkOptions) {
		prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
		if prefix == "." {
			prefix = ""
		}
		opts.PathPrefix = prefix
	}
}

// WithFileMatching makes the matcher decide on files as well as directories.
func WithFileMatching(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.IgnoreFiles = enabled
	}
}
