package ignore

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	modePrefixRe = regexp.MustCompile(`^\[(dev|prod|test|all)\]\s+(.+)$`)
	expirySuffix = regexp.MustCompile(`^(?:(.*?)\s+)?expire:(\d+)([smhd])$`)
)

// Parser turns ignore-file lines into rules for one engine mode.
type Parser struct {
	Mode Mode
	Now  func() time.Time
}

func (p Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// ParseLine parses a single line. It returns false for blank lines, comments,
// rules scoped to another mode and lines that leave no pattern behind.
func (p Parser) ParseLine(line, source string, priority int) (Rule, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return Rule{}, false
	}

	content, reason := splitInlineComment(raw)

	var mode Mode
	if m := modePrefixRe.FindStringSubmatch(content); m != nil {
		mode = Mode(m[1])
		if mode != ModeAll && mode != p.Mode {
			return Rule{}, false
		}
		content = strings.TrimSpace(m[2])
	}

	negation := false
	if strings.HasPrefix(content, "!") {
		negation = true
		content = strings.TrimSpace(content[1:])
	}

	if strings.HasPrefix(content, "@") {
		if r, ok := p.parseDirective(content, reason, priority); ok {
			r.Source = source
			r.Mode = mode
			r.IsNegation = negation
			r.Raw = raw
			return r, true
		}
	}

	pattern, expiresAt := p.splitExpiry(content)
	if pattern == "" {
		return Rule{}, false
	}

	ruleType := TypeExclude
	if negation {
		ruleType = TypeInclude
	}
	return Rule{
		Pattern:    pattern,
		Type:       ruleType,
		Reason:     reason,
		Priority:   priority,
		Source:     source,
		Mode:       mode,
		ExpiresAt:  expiresAt,
		IsNegation: negation,
		Raw:        raw,
	}, true
}

// ParseLines parses a whole file. The n-th rule produced gets priority base-n,
// so earlier lines outrank later ones.
func (p Parser) ParseLines(data, source string, base int) []Rule {
	var rules []Rule
	for _, line := range strings.Split(strings.TrimPrefix(data, "\ufeff"), "\n") {
		if r, ok := p.ParseLine(strings.TrimSuffix(line, "\r"), source, base-len(rules)); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// splitInlineComment splits "<content> # <reason>". The '#' must be preceded
// by whitespace and not escaped with a backslash.
func splitInlineComment(line string) (string, string) {
	for i := 1; i < len(line); i++ {
		if line[i] != '#' || line[i-1] == '\\' {
			continue
		}
		if line[i-1] != ' ' && line[i-1] != '\t' {
			continue
		}
		content := strings.TrimSpace(line[:i])
		if content == "" {
			continue
		}
		return content, strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// splitExpiry strips a trailing "expire:<N><unit>" and resolves it against now.
// Durations past what time.Duration can hold are clamped to its maximum.
func (p Parser) splitExpiry(content string) (string, *time.Time) {
	m := expirySuffix.FindStringSubmatch(content)
	if m == nil {
		return strings.TrimSpace(content), nil
	}
	d := maxExpiry
	unit := expiryUnit(m[3])
	if n, err := strconv.ParseInt(m[2], 10, 64); err == nil && n <= int64(maxExpiry/unit) {
		d = time.Duration(n) * unit
	}
	at := p.now().Add(d)
	return strings.TrimSpace(m[1]), &at
}

const maxExpiry = time.Duration(math.MaxInt64)

func expiryUnit(u string) time.Duration {
	switch u {
	case "s":
		return time.Second
	case "m":
		return time.Minute
	case "h":
		return time.Hour
	default:
		return 24 * time.Hour
	}
}
