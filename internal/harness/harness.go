package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sift/internal/dataset"
	"github.com/roach88/sift/internal/engine"
	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// Option configures Run.
type Option func(*runner)

// WithLogger routes engine diagnostics to logger. By default they are
// discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

type runner struct {
	logger *slog.Logger
}

// table is a scenario's rows with the metadata the engine needs.
type table struct {
	rows    []record.Row
	columns []string
	types   *schema.TypeMap
}

// Run executes every case of a scenario and returns the result.
//
// A case mismatch fails the result, not the call. The error return is for
// scenarios that cannot run at all, such as an unreadable dataset.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Result, error) {
	r := &runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(r)
	}

	tbl, err := loadTable(ctx, s)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, c := range s.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cr, err := r.runCase(tbl, s.IDKey, c)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		result.AddCase(cr)
	}

	r.logger.Debug("scenario finished",
		"scenario", s.Name,
		"cases", len(result.Cases),
		"passed", result.Passed(),
	)
	return result, nil
}

func (r *runner) runCase(tbl table, idKey string, c Case) (CaseResult, error) {
	expected, err := expectedIDs(c)
	if err != nil {
		return CaseResult{}, err
	}

	res := engine.Run(tbl.rows, c.Query, engine.Options{
		IDKey:   idKey,
		Types:   tbl.types,
		Columns: tbl.columns,
		Logger:  r.logger,
	})

	cr := CaseResult{
		Query:    c.Query,
		Parsed:   res.Query.String(),
		Expected: expected,
		Actual:   res.IDs,
		Ordered:  c.Ordered,
		Pass:     true,
	}
	if res.Types != nil {
		cr.Warnings = queryir.Validate(res.Query, res.Types).Warnings
	}
	if err := assertIDs(c.Query, c.Ordered, expected, res.IDs); err != nil {
		cr.Pass = false
		cr.Error = err.Error()
	}
	return cr, nil
}

// loadTable reads the scenario's dataset or converts its inline rows.
// Types declared by the scenario take precedence over the dataset's.
func loadTable(ctx context.Context, s *Scenario) (table, error) {
	declared, err := s.TypeMap()
	if err != nil {
		return table{}, err
	}

	if s.Dataset != "" {
		ds, err := dataset.Load(ctx, s.Dataset, dataset.Options{Table: s.Table})
		if err != nil {
			return table{}, fmt.Errorf("failed to load dataset: %w", err)
		}
		tbl := table{rows: ds.Rows, columns: ds.Columns, types: ds.Types}
		if declared != nil {
			tbl.types = declared
		}
		return tbl, nil
	}

	rows := make([]record.Row, len(s.Rows))
	for i, m := range s.Rows {
		row, err := record.NewRow(m)
		if err != nil {
			return table{}, fmt.Errorf("rows[%d]: %w", i, err)
		}
		rows[i] = row
	}
	return table{rows: rows, columns: s.Columns, types: declared}, nil
}
