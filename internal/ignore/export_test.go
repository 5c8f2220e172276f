package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func newDiskEngine(t *testing.T, root string, configure func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig(root)
	if configure != nil {
		configure(&cfg)
	}
	e, err := New(cfg, WithClock(fixedClock))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Dispose() })
	return e
}

func TestImportFromGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore": "# build\n*.tmp\nreports/\n!reports/summary.md\n",
	})
	e := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })

	assert.False(t, e.ShouldIgnore("a.tmp"))

	n, err := e.ImportFromGitignore("")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res := e.CheckPath("a.tmp")
	assert.True(t, res.Ignored)
	require.NotNil(t, res.Rule)
	assert.Equal(t, SourceGitignoreImport, res.Rule.Source)
	assert.Equal(t, PriorityGitignoreImport, res.Rule.Priority)

	// Imported rules all carry the same priority and stop evaluation, so the
	// first one in file order decides.
	assert.True(t, e.ShouldIgnore("reports/summary.md"))
}

func TestImportFromGitignoreMissingFile(t *testing.T) {
	e := newDiskEngine(t, t.TempDir(), nil)
	_, err := e.ImportFromGitignore("nope/.gitignore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestImportFromGitignoreSkipsRejectedLines(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".gitignore": "/\n**foo\n*.tmp\n"})
	e := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })

	n, err := e.ImportFromGitignore("")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, e.ShouldIgnore("a.tmp"))
	assert.False(t, e.ShouldIgnore("afoo"))
}

func TestSaveGitignoreImportAppends(t *testing.T) {
	root := t.TempDir()
	existing := "# team policy\n[prod] secrets/ # prod only\n*.bak"
	writeFiles(t, root, map[string]string{
		".gitignore":         "*.tmp\nreports/\n",
		SourceAINativeIgnore: existing,
	})
	e := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })

	n, err := e.SaveGitignoreImport("", SourceAINativeIgnore)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(root, SourceAINativeIgnore))
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, existing+"\n# Imported from .gitignore on "), out)
	assert.True(t, strings.HasSuffix(out, "\n*.tmp\nreports/\n"), out)

	prod := newDiskEngine(t, root, func(c *Config) {
		c.GitignoreFallback = false
		c.Mode = ModeProd
	})
	assert.True(t, prod.ShouldIgnore("secrets/key.txt"))
	assert.True(t, prod.ShouldIgnore("old.bak"))
	assert.True(t, prod.ShouldIgnore("a.tmp"))
}

func TestSaveGitignoreImportCreatesTarget(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".gitignore": "*.tmp\n"})
	e := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })

	n, err := e.SaveGitignoreImport("", SourceAINativeIgnore)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(root, SourceAINativeIgnore))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Imported from .gitignore on "))
	assert.True(t, strings.HasSuffix(string(data), "\n*.tmp\n"))
}

func TestExportRules(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".ainativeignore": "*.log # noisy\n@readonly docs/\n[dev] fixtures/\n",
		".aiignore":       "drafts/\n",
	})
	e := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })
	require.NoError(t, e.AddRule("payroll/", TypeNoAI, "HR data"))

	require.NoError(t, e.ExportRules("exported.ignore", false))

	data, err := os.ReadFile(filepath.Join(root, "exported.ignore"))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# Mode: dev\n")
	assert.Contains(t, out, "# Source: dynamic\n@noai payroll/ # HR data\n")
	assert.Contains(t, out, "# Source: .ainativeignore\n@readonly docs/\n*.log # noisy\n[dev] fixtures/\n")
	assert.Contains(t, out, "# Source: .aiignore\ndrafts/\n")
	assert.NotContains(t, out, "# Source: built-in")
	assert.NotContains(t, out, "# Source: security")
	assert.Less(t, strings.Index(out, "# Source: dynamic"), strings.Index(out, "# Source: .ainativeignore"))
}

func TestExportRulesRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".ainativeignore": "*.log\n!keep.log\n@noai private/ # never\n[all] cache/\n",
	})
	src := newDiskEngine(t, root, func(c *Config) { c.GitignoreFallback = false })

	dst := t.TempDir()
	require.NoError(t, src.ExportRules(filepath.Join(dst, SourceAINativeIgnore), false))
	copied := newDiskEngine(t, dst, func(c *Config) { c.GitignoreFallback = false })

	for _, p := range []string{"a.log", "keep.log", "private/x.txt", "cache/blob", "src/main.go", ".env"} {
		assert.Equal(t, src.CheckPath(p).Ignored, copied.CheckPath(p).Ignored, p)
		assert.Equal(t, src.CheckPath(p).Permission, copied.CheckPath(p).Permission, p)
	}
}

func TestExportRulesIncludeBuiltIn(t *testing.T) {
	root := t.TempDir()
	e := newDiskEngine(t, root, nil)

	path := filepath.Join(root, "all.ignore")
	require.NoError(t, e.ExportRules(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "# Source: security\n.env # Security-sensitive file\n")
	assert.Contains(t, out, "# Source: built-in\n")
	assert.Contains(t, out, "\nnode_modules/\n")
}

func TestExportRulesSkipsExpired(t *testing.T) {
	root := t.TempDir()
	clock := &testClock{now: testNow}
	writeFiles(t, root, map[string]string{".ainativeignore": "wip/ expire:1h\nold/ expire:10m\n"})

	e, err := New(DefaultConfig(root), WithClock(clock.Now))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Dispose()

	clock.Advance(30 * time.Minute)
	require.NoError(t, e.ExportRules("out.ignore", false))

	data, err := os.ReadFile(filepath.Join(root, "out.ignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "wip/ expire:1800s\n")
	assert.NotContains(t, string(data), "old/")
}
