package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const passingScenario = `name: tiny
description: "two rows"
rows:
  - {id: 1, n: 1}
  - {id: 2, n: 2}
cases:
  - query: "n>1"
    expect: [2]
  - query: "ORDER BY n DESC"
    expect: [2, 1]
    ordered: true
`

const failingScenario = `name: wrong
description: "expects the wrong id"
rows:
  - {id: 1, n: 1}
cases:
  - query: "n=1"
    expect: [2]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	out, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Contains(t, out, "Error [E005]")
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ people_scenarios (6 cases)")
	assert.Contains(t, out, "✓ people_dataset (4 cases)")
	assert.Contains(t, out, "✓ edge_cases (6 cases)")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios, "--filter", "people_*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.NotContains(t, out, "edge_cases")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, _, err := execute(t, "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tiny.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✓ tiny (2 cases)")
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, `query "n=1": ids do not match as a set`)
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: broken\n")

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tiny.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)

	var data TestResult
	resp := decodeResponse(t, out, &data)

	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 2, data.Total)
	assert.Equal(t, 1, data.Passed)
	assert.Equal(t, 1, data.Failed)
	require.Len(t, data.Scenarios, 2)
	assert.Equal(t, "absent", data.Scenarios[0].Golden)
}

func TestTestCommandGoldenLifecycle(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "tiny.yaml")
	writeFile(t, scenario, passingScenario)
	golden := filepath.Join(dir, "golden", "tiny.golden")

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")
	assert.FileExists(t, golden)

	out, _, err = execute(t, "--format", "json", "test", dir)
	require.NoError(t, err)
	var data TestResult
	decodeResponse(t, out, &data)
	require.Len(t, data.Scenarios, 1)
	assert.Equal(t, "match", data.Scenarios[0].Golden)

	// A stale golden file fails the scenario even when expectations hold.
	writeFile(t, golden, `{"cases":[],"scenario":"tiny"}`+"\n")
	out, _, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "")
	writeFile(t, filepath.Join(dir, "nested", "b.yml"), "")
	writeFile(t, filepath.Join(dir, "golden", "c.yaml"), "")
	writeFile(t, filepath.Join(dir, "d.json"), "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)

	files, err = findScenarioFiles(dir, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "nested", "b.yml")}, files)
}
