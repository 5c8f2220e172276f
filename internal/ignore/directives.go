package ignore

import "strings"

// defaultDirectiveTarget is used when a directive names no pattern.
const defaultDirectiveTarget = "**/*"

type directive struct {
	ruleType      RuleType
	priorityDelta int
	reason        string
}

var directives = map[string]directive{
	"@secrets":     {TypeNoAI, 100, "Auto-detected secrets"},
	"@large-files": {TypeExclude, 0, "File size > 1MB"},
	"@binary":      {TypeExclude, 0, "Binary file"},
	"@generated":   {TypeExclude, 0, "Auto-generated code"},
	"@readonly":    {TypeReadonly, 50, "Read-only access"},
	"@noai":        {TypeNoAI, 200, "Never accessible by AI"},
	"@temporary":   {TypeExclude, 0, "Temporary file"},
}

// IsDirective reports whether name is a recognized "@" directive.
func IsDirective(name string) bool {
	_, ok := directives[name]
	return ok
}

// parseDirective handles "@name [target] [expire:<N><unit>]". Unknown names
// return false so the caller parses the text as a literal pattern.
func (p Parser) parseDirective(content, reason string, priority int) (Rule, bool) {
	fields := strings.Fields(content)
	d, ok := directives[fields[0]]
	if !ok {
		return Rule{}, false
	}

	target, expiresAt := p.splitExpiry(strings.TrimSpace(strings.TrimPrefix(content, fields[0])))
	if target == "" {
		target = defaultDirectiveTarget
	}
	if reason == "" {
		reason = d.reason
	}
	return Rule{
		Pattern:   target,
		Type:      d.ruleType,
		Reason:    reason,
		Priority:  priority + d.priorityDelta,
		ExpiresAt: expiresAt,
	}, true
}
