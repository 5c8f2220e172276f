package ignore

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/bethropolis/ainativeignore/internal/walker"
)

// ScanReport is the outcome of a sensitive-file scan.
type ScanReport struct {
	Files    []string             `json:"files"`
	Skipped  []walker.SkippedItem `json:"skipped"`
	Duration time.Duration        `json:"duration"`
}

// dirFilter lets the walker skip directories the active rules ignore, without
// touching the result cache or the audit log.
type dirFilter struct {
	e     *Engine
	rules []Rule
	now   time.Time
}

func (f dirFilter) ShouldIgnore(relativePath string, isDir bool) bool {
	return f.e.evaluate(relativePath, f.rules, f.now).Ignored
}

// DetectSensitiveFiles returns the files under directory that match a
// security pattern, as project-relative paths in walk order.
func (e *Engine) DetectSensitiveFiles(directory string) ([]string, error) {
	report, err := e.ScanSensitiveFiles(context.Background(), directory)
	if err != nil {
		return nil, err
	}
	return report.Files, nil
}

// ScanSensitiveFiles walks directory, skipping subtrees ignored by the active
// rules, and reports files matching SecurityPatterns regardless of the rules.
func (e *Engine) ScanSensitiveFiles(ctx context.Context, directory string) (ScanReport, error) {
	start := time.Now()
	if directory == "" {
		directory = "."
	}
	if !filepath.IsAbs(directory) {
		directory = filepath.Join(e.rootDir, directory)
	}
	prefix, err := filepath.Rel(e.rootDir, directory)
	if err != nil {
		return ScanReport{}, fmt.Errorf("ignore: scan %s: %w", directory, err)
	}

	e.mu.RLock()
	filter := dirFilter{e: e, rules: e.rules, now: e.now()}
	e.mu.RUnlock()

	files := []string{}
	skipped, err := walker.Walk(directory, filter, func(relativePath string, d fs.DirEntry) error {
		if e.matcher.MatchAny(relativePath, SecurityPatterns) {
			e.logger.Debug("sensitive file: %s", relativePath)
			files = append(files, relativePath)
		}
		return nil
	},
		walker.WithContext(ctx),
		walker.WithLogger(e.logger),
		walker.WithPathPrefix(filepath.ToSlash(prefix)),
	)
	report := ScanReport{Files: files, Skipped: skipped, Duration: time.Since(start)}
	if err != nil {
		return report, fmt.Errorf("ignore: scan %s: %w", directory, err)
	}
	return report, nil
}
