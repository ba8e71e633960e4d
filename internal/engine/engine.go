package engine

import (
	"log/slog"
	"strings"

	"github.com/roach88/sift/internal/eval"
	"github.com/roach88/sift/internal/lexer"
	"github.com/roach88/sift/internal/parser"
	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
	"github.com/roach88/sift/internal/sorter"
)

// DefaultIDKey is the identifier field used when Options.IDKey is empty.
const DefaultIDKey = "id"

// Options configures a single FilterAndOrder call.
type Options struct {
	// IDKey names the identifier field. Default: "id".
	IDKey string

	// Types declares field types. When nil, types are inferred from rows.
	Types *schema.TypeMap

	// Columns fixes the field order used for inference when Types is nil.
	// Free-text search scans fields in this order.
	Columns []string

	// Logger receives debug diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

func (o Options) idKey() string {
	if o.IDKey == "" {
		return DefaultIDKey
	}
	return o.IDKey
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Result is the full outcome of a query, for callers that want more than ids.
type Result struct {
	// IDs of the matching rows, in result order.
	IDs []record.Value

	// Rows are the matching rows, in result order. They alias the input rows.
	Rows []record.Row

	// Query is the parsed query. Zero for blank text.
	Query queryir.ParsedQuery

	// Types is the type map the query was evaluated under. Nil for blank text.
	Types *schema.TypeMap

	// PatternErrors lists malformed ~= patterns, which matched nothing.
	PatternErrors []error
}

// FilterAndOrder returns the identifiers of the rows matching text, in
// result order.
func FilterAndOrder(rows []record.Row, text string, opts Options) []record.Value {
	return Run(rows, text, opts).IDs
}

// Run executes text over rows and returns the detailed result.
func Run(rows []record.Row, text string, opts Options) Result {
	log := opts.logger()
	idKey := opts.idKey()

	if strings.TrimSpace(text) == "" {
		log.Debug("blank query, returning all rows", "rows", len(rows))
		out := make([]record.Row, len(rows))
		copy(out, rows)
		return Result{IDs: ids(out, idKey), Rows: out}
	}

	q := parser.Parse(lexer.Tokenize(text))
	log.Debug("query parsed",
		"query", text,
		"or_groups", len(q.OrGroups),
		"ordered", q.OrderBy != nil,
	)

	types := resolveTypes(rows, opts)
	m := eval.Compile(q, types)
	patternErrs := m.PatternErrors()
	for _, err := range patternErrs {
		log.Debug("malformed pattern never matches", "error", err)
	}

	matched := make([]record.Row, 0, len(rows))
	for _, row := range rows {
		if m.Match(row) {
			matched = append(matched, row)
		}
	}
	if q.OrderBy != nil {
		matched = sorter.Sort(matched, *q.OrderBy, types)
	}

	log.Debug("rows filtered",
		"rows_in", len(rows),
		"rows_out", len(matched),
	)

	return Result{
		IDs:           ids(matched, idKey),
		Rows:          matched,
		Query:         q,
		Types:         types,
		PatternErrors: patternErrs,
	}
}

func resolveTypes(rows []record.Row, opts Options) *schema.TypeMap {
	if opts.Types != nil {
		return opts.Types
	}
	return schema.InferTypes(rows, opts.Columns...)
}

// ids reads the identifier of each row. A row without one yields Null.
func ids(rows []record.Row, idKey string) []record.Value {
	out := make([]record.Value, len(rows))
	for i, row := range rows {
		out[i] = row.Get(idKey)
	}
	return out
}
