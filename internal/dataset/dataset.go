// Package dataset loads tables of rows from files.
//
// It is the table adapter in front of the engine: whatever the source
// format, it delivers rows as flat field→value maps with trimmed text, the
// column order, and the declared types if the source declares any.
//
// Supported sources, chosen by file extension:
//
//	.json              array of row objects, or {"columns": [...], "rows": [...]}
//	.yaml .yml         the same two shapes
//	.cue               a struct with columns and rows fields
//	.db .sqlite .sqlite3  one table of a SQLite database
//
// A columns entry is {name, type}; type is optional. When no column declares
// a type, Types is nil and callers infer types in Columns order.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// Error codes for dataset loading.
const (
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeUnsupported = "E201" // Unknown file extension
	ErrCodeDecode      = "E202" // Malformed content
	ErrCodeTable       = "E203" // Table missing or ambiguous
)

// LoadError represents an error that occurred during dataset loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

func decodeError(path string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding %s: %v", path, err), Err: err}
}

// Dataset is a loaded table.
type Dataset struct {
	// Name is the table name for SQLite sources, else the file base name
	// without extension.
	Name string

	// Columns in source order.
	Columns []string

	// Types declared by the source, nil when nothing was declared.
	Types *schema.TypeMap

	Rows []record.Row
}

// Options configures Load.
type Options struct {
	// Table selects the table of a SQLite source. It may be empty when the
	// database holds exactly one table.
	Table string
}

// Format identifies a source format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCUE    Format = "cue"
	FormatSQLite Format = "sqlite"
)

// DetectFormat maps a path's extension to a format.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, true
	default:
		return "", false
	}
}

// Load reads the dataset at path.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset not found: %s", path), Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset is a directory: %s", path)}
	}

	format, ok := DetectFormat(path)
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported dataset extension %q (want .json, .yaml, .yml, .cue, .db, .sqlite, .sqlite3)", filepath.Ext(path)),
		}
	}

	var ds *Dataset
	switch format {
	case FormatJSON:
		ds, err = loadJSON(path)
	case FormatYAML:
		ds, err = loadYAML(path)
	case FormatCUE:
		ds, err = loadCUE(path)
	case FormatSQLite:
		ds, err = loadSQLite(ctx, path, opts.Table)
	}
	if err != nil {
		return nil, err
	}

	if ds.Name == "" {
		base := filepath.Base(path)
		ds.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	trimRows(ds.Rows)
	return ds, nil
}

// trimRows trims surrounding whitespace from every string value in place.
func trimRows(rows []record.Row) {
	for _, row := range rows {
		for k, v := range row {
			if s, ok := v.(record.String); ok {
				row[k] = record.String(strings.TrimSpace(string(s)))
			}
		}
	}
}

// column is a columns entry as written in a source file.
type column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// declare turns columns entries into column order and declared types.
// Types is nil when no entry names a type; undeclared entries default to
// string otherwise.
func declare(cols []column) ([]string, *schema.TypeMap, error) {
	names := make([]string, 0, len(cols))
	typed := false
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, nil, fmt.Errorf("column %d has no name", i)
		}
		if seen[c.Name] {
			return nil, nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		names = append(names, c.Name)
		if c.Type != "" {
			typed = true
		}
	}
	if !typed {
		return names, nil, nil
	}

	types := schema.NewTypeMap()
	for _, c := range cols {
		tag := schema.String
		if c.Type != "" {
			t, err := schema.ParseTypeTag(c.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("column %q: %w", c.Name, err)
			}
			tag = t
		}
		types.Set(c.Name, tag)
	}
	return names, types, nil
}
