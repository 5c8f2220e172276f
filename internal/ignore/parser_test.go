package ignore

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func TestParseLine(t *testing.T) {
	tests := map[string]struct {
		line string
		mode Mode
		want Rule
		skip bool
	}{
		"blank":   {line: "   ", skip: true},
		"comment": {line: "# build output", skip: true},
		"plain": {
			line: "*.log",
			want: Rule{Pattern: "*.log", Type: TypeExclude, Priority: 1000, Source: "src", Raw: "*.log"},
		},
		"inline reason": {
			line: "tmp/ # scratch space",
			want: Rule{Pattern: "tmp/", Type: TypeExclude, Reason: "scratch space", Priority: 1000, Source: "src", Raw: "tmp/ # scratch space"},
		},
		"escaped hash": {
			line: `notes\#1.md`,
			want: Rule{Pattern: `notes\#1.md`, Type: TypeExclude, Priority: 1000, Source: "src", Raw: `notes\#1.md`},
		},
		"negation": {
			line: "!keep.log",
			want: Rule{Pattern: "keep.log", Type: TypeInclude, Priority: 1000, Source: "src", IsNegation: true, Raw: "!keep.log"},
		},
		"matching mode": {
			line: "[dev] debug/",
			mode: ModeDev,
			want: Rule{Pattern: "debug/", Type: TypeExclude, Priority: 1000, Source: "src", Mode: ModeDev, Raw: "[dev] debug/"},
		},
		"other mode": {line: "[prod] debug/", mode: ModeDev, skip: true},
		"all mode": {
			line: "[all] cache/",
			mode: ModeTest,
			want: Rule{Pattern: "cache/", Type: TypeExclude, Priority: 1000, Source: "src", Mode: ModeAll, Raw: "[all] cache/"},
		},
		"expiry": {
			line: "scratch.txt expire:2h",
			want: Rule{Pattern: "scratch.txt", Type: TypeExclude, Priority: 1000, Source: "src", ExpiresAt: at(2 * time.Hour), Raw: "scratch.txt expire:2h"},
		},
		"expiry in days": {
			line: "old/ expire:3d",
			want: Rule{Pattern: "old/", Type: TypeExclude, Priority: 1000, Source: "src", ExpiresAt: at(72 * time.Hour), Raw: "old/ expire:3d"},
		},
		"readonly directive": {
			line: "@readonly docs/",
			want: Rule{Pattern: "docs/", Type: TypeReadonly, Reason: "Read-only access", Priority: 1050, Source: "src", Raw: "@readonly docs/"},
		},
		"noai directive with reason": {
			line: "@noai payroll/ # HR data",
			want: Rule{Pattern: "payroll/", Type: TypeNoAI, Reason: "HR data", Priority: 1200, Source: "src", Raw: "@noai payroll/ # HR data"},
		},
		"secrets directive without target": {
			line: "@secrets",
			want: Rule{Pattern: "**/*", Type: TypeNoAI, Reason: "Auto-detected secrets", Priority: 1100, Source: "src", Raw: "@secrets"},
		},
		"temporary directive": {
			line: "@temporary wip/ expire:30m",
			want: Rule{Pattern: "wip/", Type: TypeExclude, Reason: "Temporary file", Priority: 1000, Source: "src", ExpiresAt: at(30 * time.Minute), Raw: "@temporary wip/ expire:30m"},
		},
		"temporary directive with bare expiry": {
			line: "@temporary expire:10s",
			want: Rule{Pattern: "**/*", Type: TypeExclude, Reason: "Temporary file", Priority: 1000, Source: "src", ExpiresAt: at(10 * time.Second), Raw: "@temporary expire:10s"},
		},
		"expiry near the duration limit": {
			line: "keep/ expire:100000d",
			want: Rule{Pattern: "keep/", Type: TypeExclude, Priority: 1000, Source: "src", ExpiresAt: at(100000 * 24 * time.Hour), Raw: "keep/ expire:100000d"},
		},
		"expiry past the duration limit is clamped": {
			line: "secret-dump/ expire:200000d",
			want: Rule{Pattern: "secret-dump/", Type: TypeExclude, Priority: 1000, Source: "src", ExpiresAt: at(maxExpiry), Raw: "secret-dump/ expire:200000d"},
		},
		"expiry past int64 is clamped": {
			line: "foo expire:99999999999999999999d",
			want: Rule{Pattern: "foo", Type: TypeExclude, Priority: 1000, Source: "src", ExpiresAt: at(maxExpiry), Raw: "foo expire:99999999999999999999d"},
		},
		"unknown directive is literal": {
			line: "@types/",
			want: Rule{Pattern: "@types/", Type: TypeExclude, Priority: 1000, Source: "src", Raw: "@types/"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			mode := tc.mode
			if mode == "" {
				mode = ModeDev
			}
			p := Parser{Mode: mode, Now: fixedClock}
			got, ok := p.ParseLine(tc.line, "src", 1000)
			if tc.skip {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tc.line, diff)
			}
		})
	}
}

func TestParseLinesPriorities(t *testing.T) {
	data := "\ufeff# header\r\n*.log\r\n\r\n[prod] release/\r\n!keep.log\r\n"
	p := Parser{Mode: ModeDev, Now: fixedClock}

	rules := p.ParseLines(data, SourceAINativeIgnore, PriorityAINativeIgnore)
	require.Len(t, rules, 2)
	assert.Equal(t, "*.log", rules[0].Pattern)
	assert.Equal(t, 1000, rules[0].Priority)
	assert.Equal(t, "keep.log", rules[1].Pattern)
	assert.Equal(t, 999, rules[1].Priority)
	assert.Equal(t, SourceAINativeIgnore, rules[1].Source)
}

func TestIsDirective(t *testing.T) {
	assert.True(t, IsDirective("@noai"))
	assert.True(t, IsDirective("@large-files"))
	assert.False(t, IsDirective("@types"))
	assert.False(t, IsDirective("noai"))
}

func TestFormatRuleParsesBack(t *testing.T) {
	p := Parser{Mode: ModeDev, Now: fixedClock}
	rules := []Rule{
		{Pattern: "*.log", Type: TypeExclude},
		{Pattern: "keep.log", Type: TypeInclude, IsNegation: true},
		{Pattern: "docs/", Type: TypeReadonly, Reason: "reference only"},
		{Pattern: "payroll/", Type: TypeNoAI, Reason: "HR data", Mode: ModeAll},
		{Pattern: "wip/", Type: TypeExclude, ExpiresAt: at(90 * time.Minute)},
	}
	for _, r := range rules {
		line := FormatRule(r, testNow)
		got, ok := p.ParseLine(line, "src", 1000)
		require.True(t, ok, line)
		assert.Equal(t, r.Pattern, got.Pattern, line)
		assert.Equal(t, r.Type, got.Type, line)
		assert.Equal(t, r.Mode, got.Mode, line)
		assert.Equal(t, r.ExpiresAt, got.ExpiresAt, line)
		if r.Reason != "" {
			assert.Equal(t, r.Reason, got.Reason, line)
		}
	}

	assert.Equal(t, "[all] @noai payroll/ # HR data", FormatRule(rules[3], testNow))
	assert.Equal(t, "wip/ expire:5400s", FormatRule(rules[4], testNow))
}
