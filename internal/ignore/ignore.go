// Package ignore decides which project files an AI agent may read, write or see at all.
//
// Rules come from the project's .ainativeignore, .aiignore and (optionally)
// .gitignore files, a user-level global file, built-in defaults and a fixed
// set of security patterns. They are sorted by priority and evaluated per path
// by the Engine, which caches decisions and keeps an audit trail.
package ignore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bethropolis/ainativeignore/internal/audit"
	"github.com/bethropolis/ainativeignore/internal/utils"
	"github.com/bethropolis/ainativeignore/internal/watch"
)

// Engine is the access-control engine for one project root.
type Engine struct {
	cfg        Config
	rootDir    string
	fsys       fs.FS
	now        func() time.Time
	logger     utils.Logger
	matcher    *Matcher
	auditLimit int

	mu       sync.RWMutex
	rules    []Rule
	watcher  *watch.Watcher
	disposed bool

	cache *resultCache
	audit *audit.Log
}

// New creates an engine for cfg. Rules are not loaded until Initialize or Load.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	absRootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", cfg.RootDir, err)
	}
	cfg.RootDir = absRootDir

	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, fmt.Errorf("ignore: %w", err)
	}
	cfg.Mode = mode

	e := &Engine{
		cfg:        cfg,
		rootDir:    absRootDir,
		fsys:       os.DirFS(absRootDir),
		now:        time.Now,
		logger:     utils.NoopLogger{},
		matcher:    NewMatcher(),
		auditLimit: audit.DefaultLimit,
		cache:      newResultCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.audit = audit.New(e.auditLimit)
	return e, nil
}

// NewDefault creates an engine for rootDir with DefaultConfig.
func NewDefault(rootDir string, opts ...Option) (*Engine, error) {
	return New(DefaultConfig(rootDir), opts...)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Matcher returns the pattern matcher shared by all rules.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// Initialize loads all rule sources, drops expired rules and, when enabled,
// starts watching the project ignore files. Load failures of individual
// sources are logged, never returned.
func (e *Engine) Initialize() error {
	if err := e.Load(); err != nil {
		return err
	}
	if removed := e.CleanupExpired(); removed > 0 {
		e.logger.Debug("removed %d expired rules", removed)
	}
	if e.cfg.Watch {
		e.startWatch()
	}
	return nil
}

// Load rebuilds the rule set from every source and clears the cache.
// Dynamically added and imported rules are discarded.
func (e *Engine) Load() error {
	rules := e.loadRules()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	e.rules = rules
	e.cache.clear()
	e.logger.Debug("loaded %d rules (mode %s)", len(rules), e.cfg.Mode)
	return nil
}

// Reload is Load under the name callers of a watcher expect.
func (e *Engine) Reload() error {
	return e.Load()
}

// AddRule validates pattern and prepends it with the dynamic priority.
func (e *Engine) AddRule(pattern string, ruleType RuleType, reason string) error {
	if _, err := ParseRuleType(string(ruleType)); err != nil {
		return err
	}
	if err := e.matcher.Check(pattern); err != nil {
		return fmt.Errorf("ignore: add rule: %w", err)
	}

	r := Rule{
		Pattern:    pattern,
		Type:       ruleType,
		Reason:     reason,
		Priority:   PriorityDynamic,
		Source:     SourceDynamic,
		IsNegation: ruleType == TypeInclude,
	}
	r.Raw = FormatRule(r, e.now())

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	rules := make([]Rule, 0, len(e.rules)+1)
	rules = append(rules, r)
	rules = append(rules, e.rules...)
	sortRules(rules)
	e.rules = rules
	e.cache.clear()
	e.logger.Info("added %s rule %q", ruleType, pattern)
	return nil
}

// RemoveRule removes every rule with exactly this pattern and reports whether any existed.
func (e *Engine) RemoveRule(pattern string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Pattern != pattern {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(e.rules) {
		return false
	}
	e.rules = kept
	e.cache.clear()
	e.logger.Info("removed rule %q", pattern)
	return true
}

// Rules returns a copy of the active rules in evaluation order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// CleanupExpired removes rules whose expiry has passed and returns how many went.
func (e *Engine) CleanupExpired() int {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	kept := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if !r.Expired(now) {
			kept = append(kept, r)
		}
	}
	removed := len(e.rules) - len(kept)
	if removed > 0 {
		e.rules = kept
		e.cache.clear()
	}
	return removed
}

// ValidatePattern reports whether pattern compiles.
func (e *Engine) ValidatePattern(pattern string) ValidationResult {
	return e.matcher.Validate(pattern)
}

// AuditLog returns the retained audit entries, oldest first.
func (e *Engine) AuditLog() []audit.Entry {
	return e.audit.Entries()
}

// ClearAuditLog drops all audit entries.
func (e *Engine) ClearAuditLog() {
	e.audit.Clear()
}

// Stats summarizes the engine state.
type Stats struct {
	Rules        int              `json:"rules"`
	BySource     map[string]int   `json:"bySource"`
	ByType       map[RuleType]int `json:"byType"`
	Expired      int              `json:"expired"`
	CachedPaths  int              `json:"cachedPaths"`
	AuditEntries int              `json:"auditEntries"`
	Watching     bool             `json:"watching"`
}

// Stats reports rule counts, cache size and audit length.
func (e *Engine) Stats() Stats {
	now := e.now()
	e.mu.RLock()
	s := Stats{
		Rules:    len(e.rules),
		BySource: make(map[string]int),
		ByType:   make(map[RuleType]int),
		Watching: e.watcher != nil,
	}
	for _, r := range e.rules {
		s.BySource[r.Source]++
		s.ByType[r.Type]++
		if r.Expired(now) {
			s.Expired++
		}
	}
	e.mu.RUnlock()
	s.CachedPaths = e.cache.len()
	s.AuditEntries = e.audit.Len()
	return s
}

// watchedFiles lists the project files whose changes trigger a reload.
func (e *Engine) watchedFiles() []string {
	names := []string{SourceAINativeIgnore, SourceAIIgnore}
	if e.cfg.GitignoreFallback {
		names = append(names, SourceGitignore)
	}
	return names
}

func (e *Engine) startWatch() {
	w, err := watch.New(e.rootDir, e.watchedFiles(), watch.WithLogger(e.logger))
	if err != nil {
		e.logger.Warn("ignore files will not be reloaded automatically: %v", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		_ = w.Close()
		return
	}
	if e.watcher != nil {
		_ = e.watcher.Close()
	}
	e.watcher = w
}

// Changes returns the channel of ignore-file change notifications, or nil
// when watching is disabled.
func (e *Engine) Changes() <-chan watch.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Events()
}

// ReloadOnChange drains change notifications, calling Load for each one,
// until ctx is done or the watcher is disposed. onReload, if non-nil, runs
// after every reload.
func (e *Engine) ReloadOnChange(ctx context.Context, onReload func(watch.Event, error)) error {
	changes := e.Changes()
	if changes == nil {
		return errors.New("ignore: file watching is not enabled")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-changes:
			if !ok {
				return nil
			}
			e.logger.Info("%s changed, reloading rules", ev.Name)
			err := e.Load()
			if onReload != nil {
				onReload(ev, err)
			}
			if errors.Is(err, ErrDisposed) {
				return nil
			}
		}
	}
}

// Dispose releases the file watcher. It is safe to call more than once and
// on an engine whose Initialize never completed.
func (e *Engine) Dispose() error {
	e.mu.Lock()
	e.disposed = true
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// sortRules orders rules by priority, highest first, keeping insertion order for ties.
func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}
