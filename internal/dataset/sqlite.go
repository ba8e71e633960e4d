package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sift/internal/store"
)

func loadSQLite(ctx context.Context, path, table string) (*Dataset, error) {
	s, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, decodeError(path, err)
	}
	defer s.Close()

	if table == "" {
		tables, err := s.Tables(ctx)
		if err != nil {
			return nil, decodeError(path, err)
		}
		switch len(tables) {
		case 0:
			return nil, &LoadError{Code: ErrCodeTable, Message: fmt.Sprintf("%s has no tables", path)}
		case 1:
			table = tables[0]
		default:
			return nil, &LoadError{
				Code:    ErrCodeTable,
				Message: fmt.Sprintf("%s has %d tables (%s): choose one with --table", path, len(tables), strings.Join(tables, ", ")),
			}
		}
	}

	tbl, err := s.ReadTable(ctx, table)
	if errors.Is(err, store.ErrTableNotFound) {
		return nil, &LoadError{Code: ErrCodeTable, Message: fmt.Sprintf("table %q not found in %s", table, path), Err: err}
	}
	if err != nil {
		return nil, decodeError(path, err)
	}

	return &Dataset{
		Name:    tbl.Name,
		Columns: tbl.Columns(),
		Types:   tbl.Types,
		Rows:    tbl.Rows,
	}, nil
}
