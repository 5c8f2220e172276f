package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Walk traverses rootDir in lexical order, skipping directories the matcher
// ignores, and calls walkFn for each regular file. It returns the skipped items
// and the first error returned by walkFn or by context cancellation.
func Walk(rootDir string, matcher Matcher, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return []SkippedItem{{Path: rootDir, Reason: ReasonSkippedPathError, IsDir: true}},
			fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}

	if _, err := os.Lstat(absRootDir); err != nil {
		return nil, fmt.Errorf("walker: cannot access root '%s': %w", rootDir, err)
	}

	tracker := NewSkippedTracker(32)
	options.Logger.Debug("walker.Walk started. Root: %s, prefix: %q", absRootDir, options.PathPrefix)

	walkErr := filepath.WalkDir(absRootDir, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-options.Context.Done():
			return options.Context.Err()
		default:
		}

		isDir := d != nil && d.IsDir()

		rel, relErr := filepath.Rel(absRootDir, p)
		if relErr != nil {
			options.Logger.Error("Walker Error: Path calculation failed for %q: %v", p, relErr)
			tracker.Track(p, ReasonSkippedPathError, isDir)
			return nil
		}
		relativePath := filepath.ToSlash(rel)
		if options.PathPrefix != "" {
			relativePath = path.Join(options.PathPrefix, relativePath)
		}

		if err != nil {
			reason := ReasonSkippedWalkError
			if os.IsPermission(err) {
				reason = ReasonSkippedPermError
			}
			options.Logger.Warn("Walker: walk error for %q: %v", relativePath, err)
			tracker.Track(relativePath, reason, isDir)
			if isDir && p != absRootDir {
				return filepath.SkipDir
			}
			return nil
		}

		if p == absRootDir {
			return nil
		}

		if isDir {
			if matcher != nil && matcher.ShouldIgnore(relativePath, true) {
				options.Logger.Debug("Walker: Ignored directory %q", relativePath)
				tracker.Track(relativePath, ReasonIgnoredRule, true)
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			tracker.Track(relativePath, ReasonSkippedNotRegular, false)
			return nil
		}

		if options.IgnoreFiles && matcher != nil && matcher.ShouldIgnore(relativePath, false) {
			tracker.Track(relativePath, ReasonIgnoredRule, false)
			return nil
		}

		return walkFn(relativePath, d)
	})

	return tracker.Items(), walkErr
}
