package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

const passTable = "| 品类 | 原文输入 | 审核结果 |\n| ------ | ------ | ---- |\n| 文本 | hi | 安全通过 |\n"

// isolate points config and data lookups at a fresh directory and runs the
// test from it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Chdir(dir)
	return dir
}

// run executes the root command once with the given stdin.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	require.NoError(t, err, "tablemark %s: %s", strings.Join(args, " "), out)
	return out
}

func TestRenderHTMLFromStdin(t *testing.T) {
	isolate(t)
	out := mustRun(t, passTable, "render", "--no-archive")
	assert.True(t, strings.HasPrefix(out, `<div class="table-responsive"><table class="table table-striped result-table"><thead>`))
	assert.Contains(t, out, `<td class="text-success fw-bold">安全通过</td>`)
	assert.True(t, strings.HasSuffix(out, "</table></div>\n"))
}

func TestRenderFromFileAndDash(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "in.md")
	require.NoError(t, os.WriteFile(path, []byte(passTable), 0o644))

	fromFile := mustRun(t, "", "render", "--no-archive", path)
	fromDash := mustRun(t, passTable, "render", "--no-archive", "-")
	assert.Equal(t, fromFile, fromDash)

	_, err := run(t, "", "render", filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestRenderOutputModes(t *testing.T) {
	isolate(t)

	out := mustRun(t, passTable, "render", "--no-archive", "-o", "json")
	var doc table.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, table.EmphasisPositive, doc.Tables[0].Body[0][2].Emphasis)

	out = mustRun(t, passTable, "render", "--no-archive", "-o", "plain", "--no-headers")
	assert.NotContains(t, out, "品类")
	assert.Contains(t, out, "安全通过")

	_, err := run(t, passTable, "render", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --output: yaml")
}

func TestRenderOutputFromConfig(t *testing.T) {
	isolate(t)
	t.Setenv("TABLEMARK_OUTPUT", "ndjson")
	out := mustRun(t, passTable, "render", "--no-archive")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"emphasis":"positive"`)
}

func TestRenderXLSXToFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "review.xlsx")
	out := mustRun(t, passTable, "render", "--no-archive", "-o", "xlsx", "--out", path)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")), "xlsx is a zip archive")

	_, err = run(t, passTable, "render", "-o", "tui", "--out", path)
	assert.Error(t, err)
}

func TestHistoryLifecycle(t *testing.T) {
	isolate(t)
	mustRun(t, passTable, "render")
	mustRun(t, passTable, "render")

	out := mustRun(t, "", "history", "list", "-o", "json")
	var renders []api.Render
	require.NoError(t, json.Unmarshal([]byte(out), &renders))
	require.Len(t, renders, 1, "identical renders are stored once")
	id := renders[0].ID
	assert.Equal(t, 1, renders[0].Tables)

	out = mustRun(t, "", "history", "list")
	assert.Contains(t, out, api.ShortID(id))

	out = mustRun(t, "", "history", "show", api.ShortID(id), "--markdown")
	assert.Equal(t, passTable+"\n", out)

	out = mustRun(t, "", "history", "show", id)
	assert.Contains(t, out, "安全通过")

	out = mustRun(t, "", "history", "show", id, "--json")
	var rec api.Render
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, id, rec.ID)

	out = mustRun(t, "", "history", "delete", id)
	assert.Contains(t, out, "Deleted "+id)

	_, err := run(t, "", "history", "show", id)
	assert.Error(t, err)

	out = mustRun(t, "", "history", "list", "-o", "json")
	assert.Equal(t, "[]\n", out)
}

func TestHistoryBulkDeleteNeedsConfirmation(t *testing.T) {
	isolate(t)
	mustRun(t, passTable, "render")
	mustRun(t, "| a | b |\n|---|---|\n| 1 | 2 |", "render")

	out := mustRun(t, "", "history", "list", "-o", "json")
	var renders []api.Render
	require.NoError(t, json.Unmarshal([]byte(out), &renders))
	require.Len(t, renders, 2)

	_, err := run(t, "", "history", "delete", renders[0].ID, renders[1].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rerun with --yes")

	mustRun(t, "", "history", "delete", "--yes", renders[0].ID, renders[1].ID)
	out = mustRun(t, "", "history", "list", "-o", "json")
	assert.Equal(t, "[]\n", out)
}

func TestHistoryDisabled(t *testing.T) {
	isolate(t)
	t.Setenv("TABLEMARK_ARCHIVE_ENABLED", "false")
	mustRun(t, passTable, "render")

	_, err := run(t, "", "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive is disabled")
}

func TestResultCommand(t *testing.T) {
	isolate(t)
	body, err := json.Marshal(api.ReviewResult{Success: true, Result: passTable, InputText: "hi", HasImage: true})
	require.NoError(t, err)

	out := mustRun(t, string(body), "result")
	assert.True(t, strings.HasPrefix(out, `<div class="fade-in">`))
	assert.Contains(t, out, "<strong>Image:</strong> uploaded")
	assert.Contains(t, out, "安全通过")

	_, err = run(t, "not json", "result")
	assert.Error(t, err)
}

func TestReviewFormat(t *testing.T) {
	isolate(t)
	in := `[{"category":"文本","original_text":"bad","review_result":"拒绝","hit_word":"bad"},
{"category":"文本","original_text":"ok","review_result":"安全通过"}]`

	out := mustRun(t, in, "review", "format")
	assert.Contains(t, out, "| 文本 | bad | 拒绝 | bad |")
	assert.NotContains(t, out, "| ok |")

	out = mustRun(t, in, "review", "format", "--render")
	assert.Contains(t, out, `<td class="text-danger fw-bold">拒绝</td>`)
}

func TestRulesCommand(t *testing.T) {
	isolate(t)

	out := mustRun(t, "", "rules")
	assert.True(t, strings.HasPrefix(out, "KEYWORD"))
	assert.Contains(t, out, "warning")

	out = mustRun(t, "", "rules", "--format", "json")
	var rules table.Rules
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	assert.Equal(t, table.DefaultRules(), rules)

	out = mustRun(t, "", "rules", "--format", "yaml")
	assert.Contains(t, out, "- keyword: 拒绝\n  emphasis: negative\n")

	_, err := run(t, "", "rules", "--format", "xml")
	assert.Error(t, err)
}

func TestRulesCheck(t *testing.T) {
	isolate(t)
	assert.Equal(t, "negative\ttext-danger fw-bold\n", mustRun(t, "", "rules", "check", "审核拒绝"))
	assert.Equal(t, "none\n", mustRun(t, "", "rules", "check", "plain", "text"))

	t.Setenv("TABLEMARK_RULES", "ok=positive")
	assert.Equal(t, "positive\ttext-success fw-bold\n", mustRun(t, "", "rules", "check", "looks ok"))
	assert.Equal(t, "none\n", mustRun(t, "", "rules", "check", "拒绝"))
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	isolate(t)
	t.Setenv("TABLEMARK_RULES", "broken")
	_, err := run(t, passTable, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	out := mustRun(t, "", "config", "path")
	assert.Contains(t, out, filepath.Join("tablemark", "config.toml"))
}

func TestConfigGenerate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg", "config.toml")

	out := mustRun(t, "", "config", "generate", "--output", path)
	assert.Contains(t, out, "Wrote "+path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[html]")

	_, err = run(t, "", "config", "generate", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config already exists")

	out = mustRun(t, "", "config", "generate", "--output", path, "--update")
	assert.Contains(t, out, "Config already up to date")

	out = mustRun(t, "", "config", "generate", "--output", path, "--overwrite")
	assert.Contains(t, out, "Backup: "+path+".bak")

	_, err = run(t, "", "config", "generate", "--output", path, "--overwrite", "--update")
	assert.Error(t, err)
}

func TestCompletionGenerate(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish"} {
		out := mustRun(t, "", "completion", "generate", shell)
		assert.Contains(t, out, "tablemark", shell)
	}
}

func TestOutputFlagCompletion(t *testing.T) {
	got, directive := completeModes(nil, nil, "nd")
	assert.Equal(t, []string{"ndjson"}, got)
	assert.NotZero(t, directive)
}

func TestRenderEdit(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("VISUAL", "")
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsed 's/|  |/| x |/' \"$1\" > \"$1.tmp\" && cat \"$1.tmp\" > \"$1\"\n"), 0o755))
	t.Setenv("EDITOR", script)

	out := mustRun(t, "", "render", "--no-archive", "--edit", "--columns", "2", "-o", "json")
	var doc table.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, []string{"x", ""}, doc.Tables[0].Header.Texts())

	t.Setenv("EDITOR", "true")
	empty := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := run(t, "", "render", "--edit", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to render")
}
