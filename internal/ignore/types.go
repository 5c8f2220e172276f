package ignore

import (
	"errors"
	"fmt"
	"time"
)

// RuleType is the access effect of a matched rule.
type RuleType string

const (
	TypeExclude  RuleType = "exclude"
	TypeInclude  RuleType = "include"
	TypeReadonly RuleType = "readonly"
	TypeNoAI     RuleType = "noai"
)

// ParseRuleType converts a textual rule type, rejecting unknown values.
func ParseRuleType(s string) (RuleType, error) {
	switch t := RuleType(s); t {
	case TypeExclude, TypeInclude, TypeReadonly, TypeNoAI:
		return t, nil
	}
	return "", fmt.Errorf("ignore: unknown rule type %q", s)
}

// Mode scopes a rule to one runtime environment.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
	ModeTest Mode = "test"
	ModeAll  Mode = "all"
)

// ParseMode converts a textual mode. The empty string yields ModeDev.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeDev, nil
	case ModeDev, ModeProd, ModeTest, ModeAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Permission is the access level granted for a path.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionNone  Permission = "none"
)

// Well-known rule sources.
const (
	SourceAINativeIgnore  = ".ainativeignore"
	SourceAIIgnore        = ".aiignore"
	SourceGitignore       = ".gitignore"
	SourceBuiltIn         = "built-in"
	SourceSecurity        = "security"
	SourceDynamic         = "dynamic"
	SourceGitignoreImport = "gitignore-import"
)

// Priorities assigned per source. Lines inside a file count down from the base.
const (
	PriorityDynamic         = 2000
	PriorityGitignoreImport = 1500
	PrioritySecurity        = 1100
	PriorityAINativeIgnore  = 1000
	PriorityAIIgnore        = 900
	PriorityGitignore       = 800
	PriorityGlobal          = 700
	PriorityBuiltIn         = 500

	// Matches above this priority stop the decision loop.
	shortCircuitPriority = 1000
)

var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrEmptyPattern   = errors.New("empty pattern")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrDisposed       = errors.New("engine disposed")
)

// Rule is one normalized ignore rule.
type Rule struct {
	Pattern    string     `json:"pattern"`
	Type       RuleType   `json:"type"`
	Reason     string     `json:"reason,omitempty"`
	Priority   int        `json:"priority"`
	Source     string     `json:"source"`
	Mode       Mode       `json:"mode,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	IsNegation bool       `json:"isNegation,omitempty"`
	Raw        string     `json:"raw,omitempty"`
}

// Expired reports whether the rule has an expiry at or before now.
func (r Rule) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// Result is the outcome of a path check.
type Result struct {
	Ignored    bool       `json:"ignored"`
	Rule       *Rule      `json:"rule,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Permission Permission `json:"permission"`
}

// ValidationResult reports whether a pattern compiles.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Config is the immutable per-engine configuration.
type Config struct {
	RootDir           string
	Mode              Mode
	SecurityDetection bool
	AuditLog          bool
	// MaxFileSize in bytes; zero disables the size check.
	MaxFileSize       int64
	GitignoreFallback bool
	GlobalIgnoreFile  string
	Watch             bool
}

// DefaultConfig returns the configuration used when callers only know the root.
func DefaultConfig(rootDir string) Config {
	return Config{
		RootDir:           rootDir,
		Mode:              ModeDev,
		SecurityDetection: true,
		AuditLog:          true,
		GitignoreFallback: true,
	}
}
