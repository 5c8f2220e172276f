package printer

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/ainativeignore/internal/audit"
	"github.com/bethropolis/ainativeignore/internal/ignore"
)

func TestPrintResultText(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)

	rule := ignore.Rule{Pattern: "*.log", Type: ignore.TypeExclude}
	p.PrintResult("a.log", ignore.Result{Ignored: true, Rule: &rule, Reason: "Matched pattern: *.log", Permission: ignore.PermissionNone})
	p.PrintResult("docs/x.md", ignore.Result{Permission: ignore.PermissionRead, Reason: "Read-only access"})
	p.PrintResult("main.go", ignore.Result{Permission: ignore.PermissionWrite})
	p.Finalize()

	want := "ignored   a.log  (Matched pattern: *.log)\n" +
		"read-only docs/x.md  (Read-only access)\n" +
		"allowed   main.go\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(3), p.GetCount())
}

func TestPrintResultJSON(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)

	p.PrintResult("a.log", ignore.Result{Ignored: true, Reason: "r", Permission: ignore.PermissionNone})
	p.PrintResult("b.go", ignore.Result{Permission: ignore.PermissionWrite})
	p.PrintLine("not part of the JSON output")
	p.Finalize()

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a.log", got[0]["path"])
	assert.Equal(t, true, got[0]["ignored"])
	assert.Equal(t, "none", got[0]["permission"])
	assert.Equal(t, "b.go", got[1]["path"])
	assert.Equal(t, "write", got[1]["permission"])
}

func TestFinalizeEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)
	p.Finalize()
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)

	p.PrintValidation("*.go", ignore.ValidationResult{Valid: true})
	p.PrintValidation("[x", ignore.ValidationResult{Error: "bad"})

	assert.Equal(t, "valid    *.go\ninvalid  [x: bad\n", buf.String())
}

func TestPrintAuditAndRules(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	p.PrintAudit([]audit.Entry{{Timestamp: ts, Path: "a.log", Action: audit.ActionIgnore, Rule: "*.log", Reason: "noisy"}})
	p.PrintRules([]ignore.Rule{{Pattern: "docs/", Type: ignore.TypeReadonly, Priority: 1050, Source: ".ainativeignore"}}, ts)
	p.PrintSensitiveFile(".env")

	out := buf.String()
	assert.Contains(t, out, "2024-01-02T03:04:05Z  ignore  a.log  rule=*.log  reason=noisy\n")
	assert.Contains(t, out, " 1050  readonly  @readonly docs/")
	assert.Contains(t, out, ".ainativeignore\n")
	assert.Contains(t, out, ".env\n")
}
