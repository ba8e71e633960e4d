package dataset

import (
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueload "cuelang.org/go/cue/load"

	"github.com/roach88/sift/internal/record"
)

// loadCUE evaluates a single CUE file and reads its columns and rows fields.
// Row fields keep their declaration order.
func loadCUE(path string) (*Dataset, error) {
	ctx := cuecontext.New()
	cfg := &cueload.Config{Dir: filepath.Dir(path)}
	instances := cueload.Instances([]string{filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, cueError(fmt.Sprintf("loading %s", path), inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(fmt.Sprintf("building %s", path), err)
	}

	ds := &Dataset{Rows: []record.Row{}}

	colsVal := value.LookupPath(cue.ParsePath("columns"))
	if colsVal.Exists() {
		var cols []column
		if err := colsVal.Decode(&cols); err != nil {
			return nil, cueError("columns", err)
		}
		names, types, err := declare(cols)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error(), Pos: colsVal.Pos()}
		}
		ds.Columns, ds.Types = names, types
	}

	rowsVal := value.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return ds, nil
	}
	iter, err := rowsVal.List()
	if err != nil {
		return nil, cueError("rows", err)
	}
	for i := 0; iter.Next(); i++ {
		row, keys, err := cueRow(iter.Value())
		if err != nil {
			return nil, err
		}
		if i == 0 && ds.Columns == nil {
			ds.Columns = keys
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func cueRow(v cue.Value) (record.Row, []string, error) {
	fields, err := v.Fields()
	if err != nil {
		return nil, nil, cueError("row", err)
	}

	row := make(record.Row)
	var keys []string
	for fields.Next() {
		name := fields.Label()
		val, err := cueScalar(fields.Value())
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, name)
		row[name] = val
	}
	return row, keys, nil
}

func cueScalar(v cue.Value) (record.Value, error) {
	switch v.IncompleteKind() {
	case cue.NullKind:
		return record.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, cueError("bool", err)
		}
		return record.Bool(b), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, cueError("number", err)
		}
		return record.Number(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, cueError("string", err)
		}
		return record.String(s), nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeDecode,
			Message: fmt.Sprintf("unsupported value kind %v: rows are flat", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// cueError converts a CUE error to a LoadError, keeping the first position.
func cueError(context string, err error) *LoadError {
	le := &LoadError{
		Code:    ErrCodeBuildFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
		Err:     err,
	}
	if positions := errors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
