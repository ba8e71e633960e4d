package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// Table is a table read from the store.
type Table struct {
	Name string

	// Types holds every column in declaration order.
	Types *schema.TypeMap

	// Rows in insertion order.
	Rows []record.Row
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	return t.Types.Names()
}

// ReadTable loads a table with its column types.
//
// Returns ErrTableNotFound (wrapped) if the table does not exist.
// Returns empty Rows (not nil) for an empty table.
func (s *Store) ReadTable(ctx context.Context, name string) (*Table, error) {
	quoted, err := quoteIdent(name)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("read table %q: %w", name, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("read table %q: %w", name, ErrTableNotFound)
	}

	types, err := s.readColumns(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.readRows(ctx, quoted, types.Names())
	if err != nil {
		return nil, fmt.Errorf("read table %q: %w", name, err)
	}

	return &Table{Name: name, Types: types, Rows: rows}, nil
}

// readColumns returns the table's columns in declaration order, typed from
// sift metadata when present and from declared SQL types otherwise.
func (s *Store) readColumns(ctx context.Context, table string) (*schema.TypeMap, error) {
	declared, err := s.readMetadata(ctx, table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type FROM pragma_table_info(?) ORDER BY cid ASC`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %q: %w", table, err)
	}
	defer rows.Close()

	types := schema.NewTypeMap()
	for rows.Next() {
		var name, sqlType string
		if err := rows.Scan(&name, &sqlType); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		tag, ok := declared[name]
		if !ok {
			tag = TagForSQLType(sqlType)
		}
		types.Set(name, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return types, nil
}

func (s *Store) readMetadata(ctx context.Context, table string) (map[string]schema.TypeTag, error) {
	out := make(map[string]schema.TypeTag)
	if s.readOnly {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sift_columns'`,
		).Scan(&n); err != nil {
			return nil, fmt.Errorf("query column metadata: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type_tag FROM sift_columns
		WHERE table_name = ?
		ORDER BY position ASC
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query column metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, tagText string
		if err := rows.Scan(&name, &tagText); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}
		tag, err := schema.ParseTypeTag(tagText)
		if err != nil {
			return nil, fmt.Errorf("column %q of %q: %w", name, table, err)
		}
		out[name] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column metadata: %w", err)
	}
	return out, nil
}

func (s *Store) readRows(ctx context.Context, quotedTable string, columns []string) ([]record.Row, error) {
	if len(columns) == 0 {
		return []record.Row{}, nil
	}
	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		q, err := quoteIdent(c)
		if err != nil {
			return nil, err
		}
		quotedCols[i] = q
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid ASC",
		strings.Join(quotedCols, ", "), quotedTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := []record.Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows, columns []string) (record.Row, error) {
	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(record.Row, len(columns))
	for i, c := range columns {
		row[c] = fromSQL(raw[i])
	}
	return row, nil
}

// fromSQL converts a driver value to a raw record value.
// The sqlite3 driver returns time.Time for DATE/DATETIME/TIMESTAMP columns
// and bool for BOOLEAN columns.
func fromSQL(v any) record.Value {
	switch val := v.(type) {
	case nil:
		return record.Null{}
	case int64:
		return record.Number(float64(val))
	case float64:
		return record.Number(val)
	case bool:
		return record.Bool(val)
	case string:
		return record.String(val)
	case []byte:
		return record.String(string(val))
	case time.Time:
		if val.IsZero() {
			return record.Null{}
		}
		return record.String(formatTime(val))
	default:
		return record.String(fmt.Sprint(val))
	}
}

// formatTime renders midnight UTC as a plain date, anything else as RFC 3339.
func formatTime(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

// TagForSQLType maps a declared SQL column type to a type tag.
func TagForSQLType(sqlType string) schema.TypeTag {
	t := strings.ToUpper(sqlType)
	switch {
	case strings.Contains(t, "BOOL"):
		return schema.Boolean
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return schema.Date
	case strings.Contains(t, "INT"),
		strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return schema.Number
	default:
		return schema.String
	}
}
