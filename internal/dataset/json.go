package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/sift/internal/record"
)

type jsonTable struct {
	Columns []column          `json:"columns"`
	Rows    []json.RawMessage `json:"rows"`
}

func loadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, decodeError(path, fmt.Errorf("empty file"))
	}

	var (
		raws []json.RawMessage
		cols []column
	)
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, decodeError(path, err)
		}
	case '{':
		var tbl jsonTable
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tbl); err != nil {
			return nil, decodeError(path, err)
		}
		raws, cols = tbl.Rows, tbl.Columns
	default:
		return nil, decodeError(path, fmt.Errorf("want an array of rows or an object with columns and rows"))
	}

	rows := make([]record.Row, 0, len(raws))
	for i, raw := range raws {
		var row record.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, decodeError(path, fmt.Errorf("row %d: %w", i, err))
		}
		rows = append(rows, row)
	}

	ds := &Dataset{Rows: rows}
	if len(cols) > 0 {
		ds.Columns, ds.Types, err = declare(cols)
		if err != nil {
			return nil, decodeError(path, err)
		}
		return ds, nil
	}
	if len(raws) > 0 {
		ds.Columns, err = objectKeys(raws[0])
		if err != nil {
			return nil, decodeError(path, fmt.Errorf("row 0: %w", err))
		}
	}
	return ds, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("row is not an object")
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}
