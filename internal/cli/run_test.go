package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTreeFixture(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "tree-construction")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "#data\n<p>x\n#errors\n#script-on\n#document\n| <html>\n|   <body>\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dat"), []byte(content), 0o644))
}

func executeCommand(args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandUnimplementedEngineFails(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)

	out, err := executeCommand("run", "--tests", root)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "tree-construction: 0/1 passed (1 failed)")
	assert.Contains(t, out, "a.dat case=0 mode=on")
}

func TestRunCommandEmptyRootPasses(t *testing.T) {
	out, err := executeCommand("run", "--tests", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, out, "tree-construction: 0/0 passed (0 failed)")
}

func TestRunCommandRecordsToDatabase(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := executeCommand("run", "--tests", root, "--db", db)
	require.Error(t, err, "the unimplemented engine fails the suite")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err := executeCommand("history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "tree-construction")
	assert.Contains(t, out, "0/1 passed (1 failed)")
}

func TestRunCommandConfigFileMergedUnderFlags(t *testing.T) {
	root := t.TempDir()
	writeTreeFixture(t, root)

	cfgPath := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"tests: "+root+"\nthreads: 3\nmaxFailures: 7\nfilter: a.dat\n"), 0o644))

	// resolveRunConfig reads values from opts and only asks the command's
	// flagset whether a flag was explicitly set, so the merge logic can be
	// exercised without running the command.
	opts := &RunOptions{
		RootOptions: &RootOptions{},
		ConfigPath:  cfgPath,
		MaxFailures: 2,
	}
	cmd := NewRunCommand(opts.RootOptions)
	require.NoError(t, cmd.Flags().Set("max-failures", "2"))

	cfg, err := resolveRunConfig(cmd, opts)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.TestsRoot)
	assert.Equal(t, 3, cfg.Workers, "file value applies when the flag is unset")
	assert.Equal(t, 2, cfg.MaxFailures, "explicit flag wins over the file")
	assert.Equal(t, "a.dat", cfg.Filter)
}

func TestResolveRunConfigBadConfigFile(t *testing.T) {
	opts := &RunOptions{
		RootOptions: &RootOptions{},
		ConfigPath:  filepath.Join(t.TempDir(), "absent.yaml"),
	}
	cmd := NewRunCommand(opts.RootOptions)

	_, err := resolveRunConfig(cmd, opts)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveRunConfigDefaults(t *testing.T) {
	opts := &RunOptions{RootOptions: &RootOptions{}}
	cmd := NewRunCommand(opts.RootOptions)

	cfg, err := resolveRunConfig(cmd, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.TestsRoot)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, 1, cfg.MaxFailures, "zero-valued cap clamps to the minimum")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}

func TestLoadFileConfigErrors(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("threads: [not an int\n"), 0o644))
	_, err = LoadFileConfig(bad)
	assert.Error(t, err)
}
