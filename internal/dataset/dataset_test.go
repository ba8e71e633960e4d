package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/engine"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
	"github.com/roach88/sift/internal/store"
	"github.com/roach88/sift/internal/testutil"
)

func load(t *testing.T, name string) *Dataset {
	t.Helper()
	ds, err := Load(context.Background(), filepath.Join("testdata", name), Options{})
	require.NoError(t, err)
	return ds
}

func loadErr(t *testing.T, path string, opts Options) *LoadError {
	t.Helper()
	_, err := Load(context.Background(), path, opts)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T: %v", err, err)
	return le
}

// assertScenarios runs the reference queries over a loaded people table.
func assertScenarios(t *testing.T, ds *Dataset) {
	t.Helper()
	opts := engine.Options{Types: ds.Types, Columns: ds.Columns}
	for query, want := range map[string][]float64{
		"age >= 30":            {1, 3},
		"city:Berlin age < 40": {1},
		"age < 25 OR age > 35": {2, 3},
		"":                     {1, 2, 3},
		"active":               {1, 2},
		"ORDER BY age DESC":    {3, 1, 2},
	} {
		got := testutil.Numbers(engine.FilterAndOrder(ds.Rows, query, opts))
		assert.Equal(t, want, got, "%s: %q", ds.Name, query)
	}
}

func TestLoad_JSONWithColumns(t *testing.T) {
	ds := load(t, "people.json")

	assert.Equal(t, "people", ds.Name)
	assert.Equal(t, testutil.PeopleColumns, ds.Columns)
	require.NotNil(t, ds.Types)
	assert.Equal(t, testutil.PeopleTypes().String(), ds.Types.String())
	assert.Equal(t, record.String("Alice"), ds.Rows[0]["name"], "strings are trimmed")
	assertScenarios(t, ds)
}

func TestLoad_JSONRowsKeepKeyOrder(t *testing.T) {
	ds := load(t, "people_rows.json")

	assert.Nil(t, ds.Types)
	assert.Equal(t, testutil.PeopleColumns, ds.Columns)
	assert.Equal(t, record.Number(30), ds.Rows[0]["age"])
	assert.Equal(t, record.Bool(true), ds.Rows[0]["active"])
	assertScenarios(t, ds)
}

func TestLoad_YAMLWithColumns(t *testing.T) {
	ds := load(t, "people.yaml")

	require.NotNil(t, ds.Types)
	assert.Equal(t, schema.String, ds.Types.Lookup("name"), "untyped column defaults to string")
	assert.Equal(t, schema.Date, ds.Types.Lookup("created"))
	assert.Equal(t, record.String("2026-01-01"), ds.Rows[0]["created"], "timestamps stay text")
	assertScenarios(t, ds)
}

func TestLoad_YAMLRows(t *testing.T) {
	ds := load(t, "people_rows.yaml")

	assert.Nil(t, ds.Types)
	assert.Equal(t, testutil.PeopleColumns, ds.Columns)
	assert.Equal(t, record.Null{}, ds.Rows[2]["email"])
	assertScenarios(t, ds)
}

func TestLoad_CUE(t *testing.T) {
	ds := load(t, "people.cue")

	assert.Nil(t, ds.Types)
	assert.Equal(t, testutil.PeopleColumns, ds.Columns)
	assert.Equal(t, record.Number(22), ds.Rows[1]["age"])
	assertScenarios(t, ds)
}

func TestLoad_CUEWithColumns(t *testing.T) {
	ds := load(t, "typed.cue")

	assert.Equal(t, "sku:string,qty:number", ds.Types.String())
	got := engine.FilterAndOrder(ds.Rows, "qty>10", engine.Options{IDKey: "sku", Types: ds.Types})
	assert.Equal(t, []record.Value{record.String("b-2")}, got)
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteTable(context.Background(), "people", testutil.PeopleTypes(), testutil.People()))
	require.NoError(t, s.Close())

	ds, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "people", ds.Name)
	assert.Equal(t, testutil.PeopleColumns, ds.Columns)
	assertScenarios(t, ds)
}

func TestLoad_SQLiteTableSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.WriteTable(ctx, "a", testutil.PeopleTypes(), testutil.People()))
	require.NoError(t, s.WriteTable(ctx, "b", testutil.PeopleTypes(), testutil.People()[:1]))
	require.NoError(t, s.Close())

	le := loadErr(t, path, Options{})
	assert.Equal(t, ErrCodeTable, le.Code)
	assert.Contains(t, le.Message, "a, b")

	ds, err := Load(ctx, path, Options{Table: "b"})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 1)

	le = loadErr(t, path, Options{Table: "c"})
	assert.Equal(t, ErrCodeTable, le.Code)
	assert.True(t, errors.Is(le, store.ErrTableNotFound))
}

func TestLoad_Errors(t *testing.T) {
	le := loadErr(t, filepath.Join("testdata", "missing.json"), Options{})
	assert.Equal(t, ErrCodeNotFound, le.Code)

	le = loadErr(t, "testdata", Options{})
	assert.Equal(t, ErrCodeNotFound, le.Code)

	le = loadErr(t, filepath.Join("testdata", "notes.txt"), Options{})
	assert.Equal(t, ErrCodeUnsupported, le.Code)

	le = loadErr(t, filepath.Join("testdata", "nested.json"), Options{})
	assert.Equal(t, ErrCodeDecode, le.Code)

	le = loadErr(t, filepath.Join("testdata", "bad_type.yaml"), Options{})
	assert.Equal(t, ErrCodeDecode, le.Code)
	assert.Contains(t, le.Message, "integer")
}

func TestLoad_MalformedFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name, file, content, code string
	}{
		{"empty json", "e.json", "  ", ErrCodeDecode},
		{"scalar json", "s.json", "42", ErrCodeDecode},
		{"unknown json field", "u.json", `{"rows": [], "extra": 1}`, ErrCodeDecode},
		{"duplicate column", "d.json", `{"columns": [{"name":"a"},{"name":"a"}], "rows": []}`, ErrCodeDecode},
		{"yaml scalar root", "s.yaml", "hello", ErrCodeDecode},
		{"yaml nested value", "n.yaml", "- {a: [1, 2]}", ErrCodeDecode},
		{"yaml unknown field", "u.yaml", "rows: []\nextra: 1", ErrCodeDecode},
		{"cue syntax", "bad.cue", "rows: [", ErrCodeBuildFailed},
		{"cue nested value", "nested.cue", "rows: [{a: {b: 1}}]", ErrCodeDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			le := loadErr(t, write(tt.file, tt.content), Options{})
			assert.Equal(t, tt.code, le.Code, le.Error())
		})
	}
}

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":    FormatJSON,
		"a.YAML":    FormatYAML,
		"a.yml":     FormatYAML,
		"a.cue":     FormatCUE,
		"a.db":      FormatSQLite,
		"a.sqlite3": FormatSQLite,
	} {
		got, ok := DetectFormat(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := DetectFormat("a.csv")
	assert.False(t, ok)
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeDecode, Message: "boom"}
	assert.Equal(t, "E202: boom", err.Error())
}
