// Package summary handles display of scan results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/ainativeignore/internal/ignore"
	"github.com/bethropolis/ainativeignore/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// DisplayScanResults reports how many sensitive files a scan found.
func DisplayScanResults(logger Logger, report ignore.ScanReport, quiet bool) {
	if len(report.Files) > 0 {
		logger.Warn("Found %d security-sensitive files; they are hidden from AI access.", len(report.Files))
	} else if !quiet {
		logger.Info("No security-sensitive files found.")
	}
	if !quiet {
		logger.Info("Scan complete in %v (%d paths skipped).", report.Duration.Round(time.Millisecond), len(report.Skipped))
	}
}

// DisplayStats logs a one-line summary of the engine state.
func DisplayStats(logger Logger, stats ignore.Stats) {
	sources := make([]string, 0, len(stats.BySource))
	for src := range stats.BySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	parts := ""
	for _, src := range sources {
		parts += fmt.Sprintf(" %s=%d", src, stats.BySource[src])
	}
	logger.Info("%d rules loaded:%s", stats.Rules, parts)
	if stats.Expired > 0 {
		logger.Warn("%d rules have expired and are no longer applied", stats.Expired)
	}
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) > 0 {
		items := make([]walker.SkippedItem, len(skippedItems))
		copy(items, skippedItems)
		sort.Slice(items, func(i, j int) bool {
			return items[i].Path < items[j].Path
		})
		for _, item := range items {
			typeStr := "FILE"
			if item.IsDir {
				typeStr = "DIR "
			}
			fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n",
				typeStr,
				50, // max width for path column
				item.Path,
				item.Reason,
			)
		}
	} else {
		infoLog("No items were skipped.")
	}
	infoLog("--- End Skipped Items ---")
}
