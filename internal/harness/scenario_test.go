package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/schema"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_InlineRows(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/people_scenarios.yaml")
	require.NoError(t, err)

	assert.Equal(t, "people_scenarios", s.Name)
	assert.Equal(t, "id", s.IDKey)
	assert.Len(t, s.Rows, 3)
	assert.Len(t, s.Cases, 6)
	assert.Equal(t, "age >= 30", s.Cases[0].Query)
	assert.False(t, s.Cases[0].Ordered)
	assert.True(t, s.Cases[5].Ordered)

	types, err := s.TypeMap()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "age", "city", "created", "active"}, types.Names())
	assert.Equal(t, schema.Boolean, types.Lookup("active"))
}

func TestLoadScenario_ResolvesDatasetRelativeToFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/people_dataset.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "data", "people.json"), s.Dataset)

	types, err := s.TypeMap()
	require.NoError(t, err)
	assert.Nil(t, types)
}

func TestLoadScenario_AbsoluteDatasetUntouched(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(data, []byte(`[{"id": 1}]`), 0644))

	path := writeScenario(t, t.TempDir(), `
name: abs
description: "absolute dataset path"
dataset: `+data+`
cases:
  - query: ""
    expect: [1]
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, data, s.Dataset)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "casez")
}

func TestLoadScenario_EmptyCases(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/no_cases.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases list is required")
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "description is required",
		},
		{
			name:    "no table",
			yaml:    "name: n\ndescription: d\ncases: [{query: x, expect: []}]",
			wantErr: "either dataset or rows is required",
		},
		{
			name:    "dataset and rows",
			yaml:    "name: n\ndescription: d\ndataset: x.json\nrows: [{id: 1}]\ncases: [{query: x, expect: []}]",
			wantErr: "mutually exclusive",
		},
		{
			name:    "dataset missing",
			yaml:    "name: n\ndescription: d\ndataset: /does/not/exist.json\ncases: [{query: x, expect: []}]",
			wantErr: "dataset file not found",
		},
		{
			name:    "table without dataset",
			yaml:    "name: n\ndescription: d\ntable: t\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "table requires a dataset",
		},
		{
			name:    "unknown type tag",
			yaml:    "name: n\ndescription: d\ntypes: [{name: a, type: integer}]\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "unknown type tag",
		},
		{
			name:    "unnamed type",
			yaml:    "name: n\ndescription: d\ntypes: [{type: number}]\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "types[0]: name is required",
		},
		{
			name:    "duplicate type",
			yaml:    "name: n\ndescription: d\ntypes: [{name: a, type: number}, {name: a, type: string}]\nrows: []\ncases: [{query: x, expect: []}]",
			wantErr: "duplicate field",
		},
		{
			name:    "nested row value",
			yaml:    "name: n\ndescription: d\nrows: [{id: 1, tags: [a, b]}]\ncases: [{query: x, expect: []}]",
			wantErr: "rows[0]",
		},
		{
			name:    "missing expect",
			yaml:    "name: n\ndescription: d\nrows: []\ncases: [{query: x}]",
			wantErr: "cases[0]: expect is required",
		},
		{
			name:    "nested expect",
			yaml:    "name: n\ndescription: d\nrows: []\ncases: [{query: x, expect: [[1]]}]",
			wantErr: "cases[0].expect[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_EmptyRowsAllowed(t *testing.T) {
	s, err := ParseScenario([]byte("name: n\ndescription: d\nrows: []\ncases: [{query: x, expect: []}]"), "")
	require.NoError(t, err)
	assert.Empty(t, s.Rows)
	assert.NotNil(t, s.Cases[0].Expect)
}

func TestLoadScenarios_Directory(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"edge_cases", "people_dataset", "people_scenarios"}, names)
}

func TestLoadScenarios_FailsOnInvalidFile(t *testing.T) {
	_, err := LoadScenarios("testdata/invalid")
	require.Error(t, err)
}

func TestIsScenarioFile(t *testing.T) {
	assert.True(t, IsScenarioFile("a.yaml"))
	assert.True(t, IsScenarioFile("a.yml"))
	assert.False(t, IsScenarioFile("a.json"))
	assert.False(t, IsScenarioFile("a.golden"))
}
