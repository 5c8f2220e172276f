package ignore

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/ainativeignore/internal/audit"
)

// sniffSize is how many leading bytes are inspected for NUL bytes.
const sniffSize = 512

// ShouldIgnore reports whether path is hidden from the agent.
func (e *Engine) ShouldIgnore(path string) bool {
	return e.CheckPath(path).Ignored
}

// CheckPath decides the access level for path. Results are cached per
// normalized path until the rule set changes. On a cache miss the file may be
// stat'ed and its first bytes read; I/O failures fall back to the rule-based
// decision.
func (e *Engine) CheckPath(path string) Result {
	key := e.normalize(path)
	now := e.now()

	cached, gen, ok := e.cache.get(key)
	if ok && (cached.Rule == nil || !cached.Rule.Expired(now)) {
		return cached
	}

	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	res := e.evaluate(key, rules, now)
	res = e.applyFileChecks(key, res)
	e.cache.put(key, res, gen)

	if e.cfg.AuditLog {
		entry := audit.Entry{
			Timestamp: now,
			Path:      key,
			Action:    audit.ActionAccess,
			Reason:    res.Reason,
		}
		if res.Ignored {
			entry.Action = audit.ActionIgnore
		}
		if res.Rule != nil {
			entry.Rule = res.Rule.Pattern
		}
		e.audit.Append(entry)
	}
	return res
}

func (e *Engine) normalize(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(e.rootDir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			path = rel
		}
	}
	path = strings.TrimRight(NormalizePath(path), "/")
	if path == "." {
		return ""
	}
	return path
}

// evaluate walks rules from highest to lowest priority. Every matching rule
// overwrites the result, so a later lower-priority match wins, except that a
// noai match or any match above priority 1000 ends the walk immediately.
func (e *Engine) evaluate(path string, rules []Rule, now time.Time) Result {
	res := Result{Ignored: false, Permission: PermissionWrite}
	if path == "" {
		return res
	}

	for i := range rules {
		r := rules[i]
		if r.Expired(now) || !e.matcher.Match(path, r.Pattern) {
			continue
		}
		res = applyRule(r)
		if r.Type == TypeNoAI || r.Priority > shortCircuitPriority {
			break
		}
	}
	return res
}

func applyRule(r Rule) Result {
	res := Result{Rule: &r}
	switch r.Type {
	case TypeExclude:
		res.Ignored = true
		res.Permission = PermissionNone
		res.Reason = reasonOr(r.Reason, "Matched pattern: "+r.Pattern)
	case TypeInclude:
		res.Ignored = false
		res.Permission = PermissionWrite
		res.Reason = reasonOr(r.Reason, "Explicitly included: "+r.Pattern)
	case TypeReadonly:
		res.Ignored = false
		res.Permission = PermissionRead
		res.Reason = reasonOr(r.Reason, "Read-only: "+r.Pattern)
	case TypeNoAI:
		res.Ignored = true
		res.Permission = PermissionNone
		res.Reason = reasonOr(r.Reason, "Never accessible by AI: "+r.Pattern)
	default:
		panic(fmt.Sprintf("ignore: unhandled rule type %q", r.Type))
	}
	return res
}

func reasonOr(reason, fallback string) string {
	if reason != "" {
		return reason
	}
	return fallback
}

// applyFileChecks enforces the size limit and binary detection for files
// that exist and are not already ignored.
func (e *Engine) applyFileChecks(path string, res Result) Result {
	if res.Ignored || path == "" || !fs.ValidPath(path) {
		return res
	}
	info, err := fs.Stat(e.fsys, path)
	if err != nil || info.IsDir() {
		return res
	}

	if limit := e.cfg.MaxFileSize; limit > 0 && info.Size() > limit {
		return Result{
			Ignored:    true,
			Permission: PermissionNone,
			Reason:     fmt.Sprintf("File size %d bytes exceeds limit of %d bytes", info.Size(), limit),
		}
	}

	if e.matcher.MatchAny(path, BinaryPatterns) && e.hasNulByte(path) {
		return Result{
			Ignored:    true,
			Permission: PermissionNone,
			Reason:     "Binary file detected",
		}
	}
	return res
}

func (e *Engine) hasNulByte(path string) bool {
	f, err := e.fsys.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		e.logger.Debug("cannot read %s for binary detection: %v", path, err)
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
