package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sift/internal/record"
)

func loadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, decodeError(path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, decodeError(path, fmt.Errorf("empty document"))
	}

	ds, err := yamlTable(doc.Content[0])
	if err != nil {
		return nil, decodeError(path, err)
	}
	return ds, nil
}

func yamlTable(root *yaml.Node) (*Dataset, error) {
	var (
		rowsNode *yaml.Node
		cols     []column
	)
	switch root.Kind {
	case yaml.SequenceNode:
		rowsNode = root
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, val := root.Content[i], root.Content[i+1]
			switch key.Value {
			case "columns":
				if err := val.Decode(&cols); err != nil {
					return nil, fmt.Errorf("line %d: columns: %w", val.Line, err)
				}
			case "rows":
				rowsNode = val
			default:
				return nil, fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
			}
		}
	default:
		return nil, fmt.Errorf("line %d: want a list of rows or a mapping with columns and rows", root.Line)
	}

	ds := &Dataset{Rows: []record.Row{}}
	if rowsNode != nil {
		if rowsNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: rows must be a list", rowsNode.Line)
		}
		for i, n := range rowsNode.Content {
			row, keys, err := yamlRow(n)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if i == 0 {
				ds.Columns = keys
			}
			ds.Rows = append(ds.Rows, row)
		}
	}

	if len(cols) > 0 {
		names, types, err := declare(cols)
		if err != nil {
			return nil, err
		}
		ds.Columns, ds.Types = names, types
	}
	return ds, nil
}

// yamlRow converts a mapping node to a row and its keys in document order.
func yamlRow(n *yaml.Node) (record.Row, []string, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("line %d: row is not a mapping", n.Line)
	}
	row := make(record.Row, len(n.Content)/2)
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		v, err := yamlScalar(val)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = v
	}
	return row, keys, nil
}

// yamlScalar converts a scalar node by its resolved tag. Timestamps and
// other tags stay text so dates reach the engine as written.
func yamlScalar(n *yaml.Node) (record.Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: nested values are not supported", n.Line)
	}

	switch n.ShortTag() {
	case "!!null":
		return record.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return record.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return record.Number(f), nil
	default:
		return record.String(n.Value), nil
	}
}
