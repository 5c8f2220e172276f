// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/ainativeignore/internal/audit"
	"github.com/bethropolis/ainativeignore/internal/ignore"
)

// Printer renders engine output to the configured destination. In JSON mode
// items are streamed as one array that Finalize closes.
type Printer struct {
	output      io.Writer
	count       atomic.Int64
	useColors   bool
	jsonOutput  bool
	jsonStarted bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// CheckEntry is the JSON form of one path decision.
type CheckEntry struct {
	Path string `json:"path"`
	ignore.Result
}

// ValidationEntry is the JSON form of one pattern validation.
type ValidationEntry struct {
	Pattern string `json:"pattern"`
	ignore.ValidationResult
}

// PrintResult outputs the decision for path.
func (p *Printer) PrintResult(path string, res ignore.Result) {
	if p.writeJSON(CheckEntry{Path: path, Result: res}) {
		return
	}

	verdict := "allowed"
	paint := color.GreenString
	switch {
	case res.Ignored:
		verdict = "ignored"
		paint = color.RedString
	case res.Permission == ignore.PermissionRead:
		verdict = "read-only"
		paint = color.YellowString
	}
	line := fmt.Sprintf("%-9s %s", verdict, path)
	if p.useColors {
		line = paint("%-9s", verdict) + " " + path
	}
	if res.Reason != "" {
		line += "  (" + res.Reason + ")"
	}
	fmt.Fprintln(p.output, line)
}

// PrintRules outputs the rules in evaluation order.
func (p *Printer) PrintRules(rules []ignore.Rule, now time.Time) {
	for _, r := range rules {
		if p.writeJSON(r) {
			continue
		}
		src := r.Source
		if p.useColors {
			src = color.CyanString("%s", src)
		}
		expired := ""
		if r.Expired(now) {
			expired = " [expired]"
		}
		fmt.Fprintf(p.output, "%5d  %-8s  %-40s  %s%s\n", r.Priority, r.Type, ignore.FormatRule(r, now), src, expired)
	}
}

// PrintValidation outputs whether pattern compiles.
func (p *Printer) PrintValidation(pattern string, res ignore.ValidationResult) {
	if p.writeJSON(ValidationEntry{Pattern: pattern, ValidationResult: res}) {
		return
	}
	if res.Valid {
		fmt.Fprintf(p.output, "valid    %s\n", pattern)
		return
	}
	status := "invalid"
	if p.useColors {
		status = color.RedString("%s", status)
	}
	fmt.Fprintf(p.output, "%s  %s: %s\n", status, pattern, res.Error)
}

// PrintAudit outputs audit entries, oldest first.
func (p *Printer) PrintAudit(entries []audit.Entry) {
	for _, e := range entries {
		if p.writeJSON(e) {
			continue
		}
		line := fmt.Sprintf("%s  %-6s  %s", e.Timestamp.Format(time.RFC3339), e.Action, e.Path)
		if e.Rule != "" {
			line += "  rule=" + e.Rule
		}
		if e.Reason != "" {
			line += "  reason=" + e.Reason
		}
		fmt.Fprintln(p.output, line)
	}
}

// PrintSensitiveFile outputs one file found by a scan.
func (p *Printer) PrintSensitiveFile(path string) {
	if p.writeJSON(path) {
		return
	}
	if p.useColors {
		path = color.YellowString("%s", path)
	}
	fmt.Fprintln(p.output, path)
}

// PrintLine writes a plain message in text mode and is a no-op in JSON mode.
func (p *Printer) PrintLine(format string, args ...interface{}) {
	if p.jsonOutput {
		return
	}
	fmt.Fprintf(p.output, strings.TrimRight(format, "\n")+"\n", args...)
}

// writeJSON appends v to the JSON array and reports whether JSON mode is on.
// Every item printed is counted.
func (p *Printer) writeJSON(v interface{}) bool {
	p.count.Add(1)
	if !p.jsonOutput {
		return false
	}

	if !p.jsonStarted {
		fmt.Fprint(p.output, "[\n")
		p.jsonStarted = true
	} else {
		fmt.Fprint(p.output, ",\n")
	}

	jsonData, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return true
	}
	fmt.Fprintf(p.output, "  %s", jsonData)
	return true
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() {
	if !p.jsonOutput {
		return
	}
	if p.jsonStarted {
		fmt.Fprint(p.output, "\n]\n")
	} else {
		fmt.Fprint(p.output, "[]\n")
	}
}

// GetCount returns the number of items printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
