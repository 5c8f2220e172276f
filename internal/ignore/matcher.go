package ignore

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// compiledPattern is the glob set one ignore pattern expands to.
type compiledPattern struct {
	globs []glob.Glob
	// baseName patterns (no slash) are also tried against the last path element.
	baseName bool
	err      error
}

// Matcher evaluates normalized relative paths against glob patterns.
// `*` never crosses a slash, `**` does, dotfiles are matched like any other name
// and slash-less patterns also match the path's base name. Compiled patterns
// are memoized; a Matcher is safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	compiled map[string]*compiledPattern
}

// NewMatcher returns an empty Matcher.
func NewMatcher() *Matcher {
	return &Matcher{compiled: make(map[string]*compiledPattern)}
}

// Match reports whether path matches pattern. Invalid patterns never match.
func (m *Matcher) Match(p, pattern string) bool {
	c := m.compile(pattern)
	if c.err != nil {
		return false
	}
	for _, g := range c.globs {
		if g.Match(p) {
			return true
		}
	}
	if c.baseName {
		base := path.Base(p)
		if base != p {
			for _, g := range c.globs {
				if g.Match(base) {
					return true
				}
			}
		}
	}
	return false
}

// Check compiles pattern and returns the error wrapping ErrInvalidPattern or
// ErrEmptyPattern when it cannot be used.
func (m *Matcher) Check(pattern string) error {
	return m.compile(pattern).err
}

// Validate attempts to compile pattern and reports the failure without panicking.
func (m *Matcher) Validate(pattern string) ValidationResult {
	if err := m.Check(pattern); err != nil {
		return ValidationResult{Valid: false, Error: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// MatchAny reports whether path matches at least one of patterns.
func (m *Matcher) MatchAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if m.Match(p, pattern) {
			return true
		}
	}
	return false
}

func (m *Matcher) compile(pattern string) *compiledPattern {
	m.mu.RLock()
	c, ok := m.compiled[pattern]
	m.mu.RUnlock()
	if ok {
		return c
	}

	c = compilePattern(pattern)

	m.mu.Lock()
	m.compiled[pattern] = c
	m.mu.Unlock()
	return c
}

func compilePattern(pattern string) *compiledPattern {
	p := strings.TrimPrefix(strings.TrimSpace(pattern), "./")
	anchored := strings.HasPrefix(p, "/")
	p = strings.TrimLeft(p, "/")
	dirOnly := strings.HasSuffix(p, "/")
	p = strings.TrimRight(p, "/")
	if p == "" {
		return &compiledPattern{err: fmt.Errorf("%w: %q", ErrEmptyPattern, pattern)}
	}
	hasSlash := strings.Contains(p, "/")

	variants := []string{p}
	if dirOnly {
		variants = append(variants, p+"/**")
		if !anchored && !hasSlash {
			variants = append(variants, "**/"+p, "**/"+p+"/**")
		}
	}
	var expanded []string
	for _, v := range variants {
		expanded = append(expanded, zeroDirVariants(v)...)
	}
	variants = expanded

	c := &compiledPattern{baseName: !anchored && !hasSlash && !dirOnly}
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		g, err := glob.Compile(v, '/')
		if err != nil {
			return &compiledPattern{err: fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)}
		}
		c.globs = append(c.globs, g)
	}
	return c
}

// maxCollapsedStars bounds how many "/**/" segments of one pattern are
// expanded; later ones only match one or more directories.
const maxCollapsedStars = 8

// zeroDirVariants returns v together with every combination of its "/**/"
// segments collapsed to "/", and each of those without a leading "**/".
// gobwas/glob requires "**" to consume at least one directory, while in
// ignore files it also matches none.
func zeroDirVariants(v string) []string {
	parts := strings.Split(v, "/**/")
	out := []string{parts[0]}
	for i, part := range parts[1:] {
		next := make([]string, 0, 2*len(out))
		for _, prefix := range out {
			next = append(next, prefix+"/**/"+part)
			if i < maxCollapsedStars {
				next = append(next, prefix+"/"+part)
			}
		}
		out = next
	}
	for _, o := range out {
		if rest := strings.TrimPrefix(o, "**/"); rest != o && rest != "" {
			out = append(out, rest)
		}
	}
	return out
}

// NormalizePath converts a caller supplied path to the form rules match against:
// forward slashes, no leading "./" or "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		default:
			return p
		}
	}
}
