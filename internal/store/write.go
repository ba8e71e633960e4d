package store

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// sqlType is the declared column type used for each tag. Dates are stored as
// TEXT so unparsable values survive the round trip unchanged.
func sqlType(tag schema.TypeTag) string {
	switch tag {
	case schema.Number:
		return "REAL"
	case schema.Boolean:
		return "BOOLEAN"
	case schema.Date, schema.String:
		return "TEXT"
	default:
		panic(fmt.Sprintf("store: unknown type tag %d", int(tag)))
	}
}

// WriteTable replaces table name with rows, declaring one column per entry
// of types in order. Row fields not declared in types are dropped.
//
// The whole write happens in one transaction.
func (s *Store) WriteTable(ctx context.Context, name string, types *schema.TypeMap, rows []record.Row) error {
	if err := checkTableName(name); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	quoted, err := quoteIdent(name)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	fields := types.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("write table %q: no columns", name)
	}

	defs := make([]string, len(fields))
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, f := range fields {
		q, err := quoteIdent(f.Name)
		if err != nil {
			return fmt.Errorf("write table %q: column %d: %w", name, i, err)
		}
		cols[i] = q
		defs[i] = q + " " + sqlType(f.Type)
		marks[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return fmt.Errorf("drop table %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoted, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sift_columns WHERE table_name = ?`, name); err != nil {
		return fmt.Errorf("clear column metadata: %w", err)
	}
	for i, f := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sift_columns (table_name, position, name, type_tag) VALUES (?, ?, ?, ?)`,
			name, i, f.Name, f.Type.String(),
		); err != nil {
			return fmt.Errorf("insert column metadata: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(fields))
	for n, row := range rows {
		for i, f := range fields {
			args[i] = toSQL(row.Get(f.Name), f.Type)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", n, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// toSQL converts a raw value to a driver value for a column of type tag.
// Text that fits the column's type is stored natively; other text is kept
// as is.
func toSQL(v record.Value, tag schema.TypeTag) any {
	switch val := v.(type) {
	case nil, record.Null:
		return nil
	case record.Bool:
		return bool(val)
	case record.Number:
		return float64(val)
	case record.String:
		s := string(val)
		switch tag {
		case schema.Number:
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f
			}
		case schema.Boolean:
			switch strings.ToLower(s) {
			case "true":
				return true
			case "false":
				return false
			}
		}
		return s
	default:
		return record.Text(v)
	}
}
