package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/htmlconf/internal/runner"
)

func writeJSONFixture(t *testing.T, root, suite, name, content string) {
	t.Helper()
	dir := filepath.Join(root, suite)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestListCommandCountsFiles(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)
	writeJSONFixture(t, root, "tokenizer", "t1.test",
		`{"tests": [{"description": "a", "input": "x", "output": []}]}`)
	writeJSONFixture(t, root, "serializer", "s1.test", `{"tests": []}`)

	out, err := executeCommand("list", "--tests", root)

	require.NoError(t, err)
	assert.Contains(t, out, "tree-construction files: 1")
	assert.Contains(t, out, "tokenizer files: 1")
	assert.Contains(t, out, "serializer files: 1")
}

func TestListCommandCaseCounts(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)
	writeJSONFixture(t, root, "tokenizer", "t1.test",
		`{"tests": [{"description": "a", "input": "x", "output": []},
		            {"description": "b", "input": "y", "output": []}]}`)

	out, err := executeCommand("list", "--tests", root, "--cases")

	require.NoError(t, err)
	assert.Contains(t, out, "a.dat: 1 cases")
	assert.Contains(t, out, "t1.test: 2 tests")
}

func TestShowCommandPrintsCase(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)

	out, err := executeCommand("show", "--tests", root,
		filepath.Join("tree-construction", "a.dat"), "0")

	require.NoError(t, err)
	assert.Contains(t, out, "case: 0")
	assert.Contains(t, out, "script: on")
	assert.Contains(t, out, "fragment: (none)")
	assert.Contains(t, out, "#data\n<p>x\n")
	assert.Contains(t, out, "#document\n| <html>\n|   <body>\n")
}

func TestShowCommandIndexOutOfRange(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)

	_, err := executeCommand("show", "--tests", root,
		filepath.Join("tree-construction", "a.dat"), "5")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShowCommandRejectsBadIndex(t *testing.T) {
	_, err := executeCommand("show", "--tests", t.TempDir(), "a.dat", "minus-one")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSmokeCommandClean(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)
	writeJSONFixture(t, root, "tokenizer", "t1.test", `{"tests": []}`)

	out, err := executeCommand("smoke", "--tests", root)

	require.NoError(t, err)
	assert.Contains(t, out, "all fixtures decode cleanly")
}

func TestSmokeCommandReportsDecodeErrors(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)
	writeJSONFixture(t, root, "tokenizer", "bad.test", `{nope`)

	out, err := executeCommand("smoke", "--tests", root)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "tokenizer decode error")
	assert.Contains(t, out, "bad.test")
}

func TestReportPrinterGroupsDigits(t *testing.T) {
	var buf bytes.Buffer
	r := newReportPrinter(&buf)

	r.Suite("tree-construction", runner.Summary{Total: 1234567, Passed: 1234000, Failed: 567})

	assert.Equal(t, "tree-construction: 1,234,000/1,234,567 passed (567 failed)\n", buf.String())
}

func TestReportPrinterFailures(t *testing.T) {
	var buf bytes.Buffer
	r := newReportPrinter(&buf)

	r.Failures(nil, 20)
	assert.Empty(t, buf.String(), "no header when there is nothing to show")

	r.Failures([]runner.Failure{
		{File: "tree-construction/tests1.dat", CaseIndex: 4, Label: "off"},
	}, 20)
	assert.Contains(t, buf.String(), "failures (showing up to 20):")
	assert.Contains(t, buf.String(), "- tree-construction/tests1.dat case=4 mode=off")
}

func TestRunCommandJSONReport(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)

	out, err := executeCommand("run", "--tests", root, "--json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var report struct {
		Suites []struct {
			Name   string `json:"name"`
			Total  int    `json:"total"`
			Passed int    `json:"passed"`
			Failed int    `json:"failed"`
		} `json:"suites"`
		Failures []struct {
			File      string `json:"file"`
			CaseIndex int    `json:"case_index"`
			Mode      string `json:"mode"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Suites, 1)
	assert.Equal(t, "tree-construction", report.Suites[0].Name)
	assert.Equal(t, 1, report.Suites[0].Total)
	assert.Equal(t, 1, report.Suites[0].Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "tree-construction/a.dat", report.Failures[0].File)
	assert.Equal(t, "on", report.Failures[0].Mode)
}

func TestHistoryCommandRequiresDatabase(t *testing.T) {
	_, err := executeCommand("history")
	require.Error(t, err)
}
