package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

func (e *Engine) parser() Parser {
	return Parser{Mode: e.cfg.Mode, Now: e.now}
}

// loadRules assembles the rule set from every source in precedence order.
// Missing or unreadable sources contribute nothing.
func (e *Engine) loadRules() []Rule {
	p := e.parser()
	var rules []Rule

	if data, ok := e.readProjectFile(SourceAINativeIgnore); ok {
		rules = append(rules, p.ParseLines(data, SourceAINativeIgnore, PriorityAINativeIgnore)...)
	}
	if data, ok := e.readProjectFile(SourceAIIgnore); ok {
		rules = append(rules, p.ParseLines(data, SourceAIIgnore, PriorityAIIgnore)...)
	}
	if e.cfg.GitignoreFallback {
		if data, ok := e.readProjectFile(SourceGitignore); ok {
			data = e.gitignoreLines([]byte(data), SourceGitignore)
			rules = append(rules, p.ParseLines(data, SourceGitignore, PriorityGitignore)...)
		}
	}
	if path := e.globalIgnorePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			rules = append(rules, p.ParseLines(string(data), path, PriorityGlobal)...)
		} else if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("global ignore file %s not found", path)
		} else {
			e.logger.Warn("cannot read global ignore file %s: %v", path, err)
		}
	}

	rules = append(rules, builtInRules(BuiltInPatterns, SourceBuiltIn, PriorityBuiltIn, TypeExclude, "")...)
	if e.cfg.SecurityDetection {
		rules = append(rules, builtInRules(SecurityPatterns, SourceSecurity, PrioritySecurity, TypeExclude, securityReason)...)
	}

	rules = e.dropInvalid(rules)
	sortRules(rules)
	return rules
}

func (e *Engine) readProjectFile(name string) (string, bool) {
	data, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("%s not found in %s", name, e.rootDir)
		} else {
			e.logger.Warn("cannot read %s: %v", name, err)
		}
		return "", false
	}
	return string(data), true
}

func (e *Engine) globalIgnorePath() string {
	path := e.cfg.GlobalIgnoreFile
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			e.logger.Warn("cannot resolve home directory for %s: %v", path, err)
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func (e *Engine) dropInvalid(rules []Rule) []Rule {
	kept := rules[:0]
	for _, r := range rules {
		if err := e.matcher.Check(r.Pattern); err != nil {
			e.logger.Warn("%s: skipping rule %q: %v", r.Source, r.Raw, err)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// gitignoreLines runs every line of data through the gitignore grammar and
// returns data with each rejected line blanked, so line-based parsing keeps
// its positions.
func (e *Engine) gitignoreLines(data []byte, name string) string {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if reason := e.vetGitignoreLine(strings.TrimSuffix(line, "\r")); reason != "" {
			e.logger.Warn("%s:%d: skipping invalid line %q: %s", name, i+1, line, reason)
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// vetGitignoreLine reports why the gitignore grammar rejects line, or "" when
// it accepts it. The library panics on some inputs (a lone "/"), which is
// treated as a rejection.
func (e *Engine) vetGitignoreLine(line string) (reason string) {
	if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("PANIC recovered in gitignore library for line %q: %v", line, r)
			reason = fmt.Sprintf("gitignore parser failed: %v", r)
		}
	}()
	gitignore.New(strings.NewReader(line), e.rootDir, func(err gitignore.Error) bool {
		if reason == "" {
			reason = err.Underlying().Error()
		}
		return true
	})
	return reason
}

// ImportFromGitignore adds the rules of a .gitignore file with the import
// priority. An empty path means the project's own .gitignore. It returns the
// number of rules added.
func (e *Engine) ImportFromGitignore(path string) (int, error) {
	imported, _, err := e.importGitignore(path)
	return len(imported), err
}

// SaveGitignoreImport imports a .gitignore like ImportFromGitignore and
// appends the imported lines to the ignore file target. The existing content
// of target is kept as is.
func (e *Engine) SaveGitignoreImport(path, target string) (int, error) {
	imported, from, err := e.importGitignore(path)
	if err != nil || len(imported) == 0 {
		return len(imported), err
	}
	if err := e.appendRules(target, imported, from); err != nil {
		return 0, err
	}
	return len(imported), nil
}

func (e *Engine) importGitignore(path string) ([]Rule, string, error) {
	if path == "" {
		path = SourceGitignore
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.rootDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("ignore: import %s: %w", path, err)
	}

	p := e.parser()
	var imported []Rule
	for _, line := range strings.Split(e.gitignoreLines(data, path), "\n") {
		if r, ok := p.ParseLine(strings.TrimSuffix(line, "\r"), SourceGitignoreImport, PriorityGitignoreImport); ok {
			imported = append(imported, r)
		}
	}
	imported = e.dropInvalid(imported)
	if len(imported) == 0 {
		return nil, path, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return nil, path, ErrDisposed
	}
	rules := make([]Rule, 0, len(e.rules)+len(imported))
	rules = append(rules, imported...)
	rules = append(rules, e.rules...)
	sortRules(rules)
	e.rules = rules
	e.cache.clear()
	e.logger.Info("imported %d rules from %s", len(imported), path)
	return imported, path, nil
}
