package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := &AppContext{
		Build: BuildInfo{Version: "1.2.3"},
		IO:    IOStreams{In: strings.NewReader(stdin), Out: &out, ErrOut: &errOut},
	}
	root := newRootCommand(app)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(&errOut, "ERROR:", err)
	}
	return out.String(), errOut.String(), mapExitCode(err)
}

func testConfig(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`engine:
  steps: 3
  min_delay: 1ms
  max_delay: 2ms
consumer:
  interval: 5ms
log:
  path: %s
store:
  driver: %s
  sqlite_path: %s
`, filepath.Join(dir, "godl.log"), driver, filepath.Join(dir, "godl.db"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, code := runCLI(t, "", "version")
	assert.Equal(t, exitSuccess, code)
	assert.Equal(t, "godl 1.2.3 (commit unknown, built unknown)\n", out)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, _, code := runCLI(t, "", "version", "--bogus")
	assert.Equal(t, exitInvalidUsage, code)
}

func TestRunRequiresSources(t *testing.T) {
	cfg := testConfig(t, "none")
	_, errOut, code := runCLI(t, "", "run", "-c", cfg)
	assert.Equal(t, exitInvalidUsage, code)
	assert.Contains(t, errOut, "at least one source")
}

func TestRunMissingConfig(t *testing.T) {
	_, _, code := runCLI(t, "", "run", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "a")
	assert.Equal(t, exitInvalidConfig, code)
}

func TestRunDownloadsAndHistory(t *testing.T) {
	cfg := testConfig(t, "sqlite")

	out, errOut, code := runCLI(t, "", "run", "--plain", "--no-color", "-c", cfg, "http://example.com/a", "http://example.com/b")
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "[1] http://example.com/a: completed at 100%")
	assert.Contains(t, out, "[2] http://example.com/b: completed at 100%")
	assert.Contains(t, out, "Completed: 2 | Canceled: 0 | Failed: 0 | Total: 2")

	out, errOut, code = runCLI(t, "", "history", "-c", cfg)
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "SOURCE")
	assert.Equal(t, 2, strings.Count(out, "completed"))
}

func TestRunInteractiveEndsAtEOF(t *testing.T) {
	cfg := testConfig(t, "none")

	out, errOut, code := runCLI(t, "add a\nadd b\n", "run", "-i", "--plain", "--no-color", "-c", cfg)
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, errOut, "added task 2")
	assert.Contains(t, out, "Total: 2")
}

func TestHistoryWithoutJournal(t *testing.T) {
	cfg := testConfig(t, "none")
	_, errOut, code := runCLI(t, "", "history", "-c", cfg)
	assert.Equal(t, exitInvalidConfig, code)
	assert.Contains(t, errOut, "journal is disabled")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, _, code := runCLI(t, "", "config", "init", path)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "steps: 100")

	_, errOut, code := runCLI(t, "", "config", "init", path)
	assert.Equal(t, exitInvalidConfig, code)
	assert.Contains(t, errOut, "already exists")

	_, _, code = runCLI(t, "", "config", "init", path, "--force")
	assert.Equal(t, exitSuccess, code)
}
