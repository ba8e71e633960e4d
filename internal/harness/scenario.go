package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// Scenario defines a conformance scenario: one table and the queries run
// against it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is a path to a dataset file. Relative paths are resolved
	// against the scenario file's directory. Mutually exclusive with Rows.
	Dataset string `yaml:"dataset,omitempty"`

	// Table selects the table when Dataset is a SQLite database.
	Table string `yaml:"table,omitempty"`

	// Columns fixes the field order used for type inference of inline rows.
	Columns []string `yaml:"columns,omitempty"`

	// Types declares field types in order. Overrides the dataset's own
	// declarations when set.
	Types []FieldDecl `yaml:"types,omitempty"`

	// Rows is an inline table.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// IDKey names the identifier field. Default: "id".
	IDKey string `yaml:"id_key,omitempty"`

	// Cases are the queries to run, in order.
	Cases []Case `yaml:"cases"`
}

// FieldDecl declares one field's type.
type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Case is a single query and its expected identifiers.
type Case struct {
	// Query is the query text. Blank text matches every row.
	Query string `yaml:"query"`

	// Expect lists the identifiers the query must return.
	Expect []any `yaml:"expect"`

	// Ordered requires Expect to match position by position.
	Ordered bool `yaml:"ordered,omitempty"`
}

// TypeMap returns the declared types, or nil when none are declared.
func (s *Scenario) TypeMap() (*schema.TypeMap, error) {
	if len(s.Types) == 0 {
		return nil, nil
	}
	m := schema.NewTypeMap()
	for i, f := range s.Types {
		tag, err := schema.ParseTypeTag(f.Type)
		if err != nil {
			return nil, fmt.Errorf("types[%d]: %w", i, err)
		}
		m.Set(f.Name, tag)
	}
	return m, nil
}

// LoadScenario loads a scenario from a YAML file. A relative Dataset path is
// resolved against the directory holding the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes scenario YAML. baseDir anchors a relative Dataset
// path; it may be empty.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve dataset path BEFORE validation
	if s.Dataset != "" && !filepath.IsAbs(s.Dataset) && baseDir != "" {
		s.Dataset = filepath.Join(baseDir, s.Dataset)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarios loads every .yaml and .yml scenario directly inside dir,
// in file name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var out []*Scenario
	for _, e := range entries {
		if e.IsDir() || !IsScenarioFile(e.Name()) {
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// IsScenarioFile reports whether name has a scenario file extension.
func IsScenarioFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Dataset != "" && len(s.Rows) > 0:
		return fmt.Errorf("dataset and rows are mutually exclusive")
	case s.Dataset == "" && s.Rows == nil:
		return fmt.Errorf("either dataset or rows is required")
	}

	if s.Dataset != "" {
		if _, err := os.Stat(s.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("dataset file not found: %s", s.Dataset)
		}
	}

	if s.Table != "" && s.Dataset == "" {
		return fmt.Errorf("table requires a dataset")
	}

	seen := make(map[string]bool, len(s.Types))
	for i, f := range s.Types {
		if f.Name == "" {
			return fmt.Errorf("types[%d]: name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("types[%d]: duplicate field %q", i, f.Name)
		}
		seen[f.Name] = true
	}
	if _, err := s.TypeMap(); err != nil {
		return err
	}

	for i, row := range s.Rows {
		if _, err := record.NewRow(row); err != nil {
			return fmt.Errorf("rows[%d]: %w", i, err)
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Expect == nil {
			return fmt.Errorf("cases[%d]: expect is required (use [] for no matches)", i)
		}
		for j, id := range c.Expect {
			if _, err := record.FromAny(id); err != nil {
				return fmt.Errorf("cases[%d].expect[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}
