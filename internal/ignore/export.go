package ignore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FormatRule renders r as an ignore-file line that parses back to an
// equivalent rule. A pending expiry is written as the remaining seconds.
func FormatRule(r Rule, now time.Time) string {
	var b strings.Builder
	if r.Mode != "" {
		fmt.Fprintf(&b, "[%s] ", r.Mode)
	}
	switch r.Type {
	case TypeInclude:
		b.WriteString("!" + r.Pattern)
	case TypeExclude:
		b.WriteString(r.Pattern)
	case TypeReadonly:
		b.WriteString("@readonly " + r.Pattern)
	case TypeNoAI:
		b.WriteString("@noai " + r.Pattern)
	}
	if r.ExpiresAt != nil {
		secs := int64(r.ExpiresAt.Sub(now).Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		fmt.Fprintf(&b, " expire:%ds", secs)
	}
	if r.Reason != "" {
		b.WriteString(" # " + r.Reason)
	}
	return b.String()
}

// ExportRules writes the active rules to path as an ignore file, grouped by
// source in evaluation order. Built-in and security rules are only written
// when includeBuiltIn is set; expired rules never are. A relative path is
// resolved against the project root.
func (e *Engine) ExportRules(path string, includeBuiltIn bool) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.rootDir, path)
	}
	now := e.now()

	var order []string
	groups := make(map[string][]string)
	for _, r := range e.Rules() {
		if r.Expired(now) {
			continue
		}
		if !includeBuiltIn && (r.Source == SourceBuiltIn || r.Source == SourceSecurity) {
			continue
		}
		line := r.Raw
		if line == "" || r.ExpiresAt != nil || r.Source == SourceBuiltIn || r.Source == SourceSecurity {
			line = FormatRule(r, now)
		}
		if _, seen := groups[r.Source]; !seen {
			order = append(order, r.Source)
		}
		groups[r.Source] = append(groups[r.Source], line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by ainativeignore on %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Mode: %s\n", e.cfg.Mode)
	for _, source := range order {
		fmt.Fprintf(&b, "\n# Source: %s\n", source)
		for _, line := range groups[source] {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("ignore: export rules to %s: %w", path, err)
	}
	e.logger.Info("exported rules to %s", path)
	return nil
}

// appendRules adds the lines of rules to the end of the ignore file at path,
// under a comment naming where they came from. The file is created when
// missing.
func (e *Engine) appendRules(path string, rules []Rule, from string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.rootDir, path)
	}
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ignore: append rules to %s: %w", path, err)
	}

	now := e.now()
	var b strings.Builder
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "# Imported from %s on %s\n", filepath.Base(from), now.UTC().Format(time.RFC3339))
	for _, r := range rules {
		line := r.Raw
		if line == "" || r.ExpiresAt != nil {
			line = FormatRule(r, now)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("ignore: append rules to %s: %w", path, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("ignore: append rules to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("ignore: append rules to %s: %w", path, err)
	}
	e.logger.Info("appended %d rules to %s", len(rules), path)
	return nil
}
