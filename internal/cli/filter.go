package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/engine"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Rows bool // print matching rows instead of ids
}

// FilterResult is the JSON payload of the filter command.
type FilterResult struct {
	Dataset       string          `json:"dataset"`
	Query         string          `json:"query"`
	Parsed        string          `json:"parsed"`
	Types         *schema.TypeMap `json:"types"`
	IDs           []record.Value  `json:"ids"`
	Rows          []record.Row    `json:"rows,omitempty"`
	Count         int             `json:"count"`
	PatternErrors []string        `json:"pattern_errors,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <dataset> [query...]",
		Short: "Filter and order a dataset, printing matching ids",
		Long: `Filter and order the rows of a dataset.

Prints the id of every matching row, one per line, in result order.
An empty query returns every row in dataset order.

Field types come from the dataset's own declarations, then --types,
and are otherwise inferred from the rows.

Examples:
  sift filter people.json "city:Berlin age >= 30"
  sift filter people.yaml "age < 25 OR age > 35 ORDER BY age DESC"
  sift filter shop.db --table orders "status=open" --rows
  sift filter people.json active --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], queryText(args[1:]), cmd)
		},
	}

	cmd.Flags().String("id-key", "id", "identifier field")
	cmd.Flags().String("types", "", `field types for undeclared datasets, e.g. "age:number,created:date"`)
	cmd.Flags().String("table", "", "table to read from a SQLite dataset")
	cmd.Flags().BoolVar(&opts.Rows, "rows", false, "print matching rows instead of ids")

	return cmd
}

func runFilter(opts *FilterOptions, path, text string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := opts.logger()

	ds, err := opts.loadDataset(cmd.Context(), f, path, opts.settings().Table)
	if err != nil {
		return err
	}
	types, err := opts.datasetTypes(f, ds)
	if err != nil {
		return err
	}

	res := engine.Run(ds.Rows, text, engine.Options{
		IDKey:   opts.settings().IDKey,
		Types:   types,
		Columns: ds.Columns,
		Logger:  log,
	})

	var patternErrs []string
	for _, perr := range res.PatternErrors {
		log.Warn("pattern never matches", "error", perr)
		patternErrs = append(patternErrs, perr.Error())
	}

	if f.IsJSON() {
		out := FilterResult{
			Dataset:       ds.Name,
			Query:         text,
			Parsed:        res.Query.String(),
			Types:         res.Types,
			IDs:           res.IDs,
			Count:         len(res.IDs),
			PatternErrors: patternErrs,
		}
		if opts.Rows {
			out.Rows = res.Rows
		}
		return f.Success(out)
	}

	w := f.Writer
	if opts.Rows {
		for _, row := range res.Rows {
			data, err := record.MarshalCanonical(row)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to render row", err)
			}
			fmt.Fprintln(w, string(data))
		}
	} else {
		for _, id := range res.IDs {
			fmt.Fprintln(w, idText(id))
		}
	}
	f.VerboseLog("%d of %d rows matched %s", len(res.IDs), len(ds.Rows), res.Query)
	return nil
}

// idText renders an identifier for text output. Missing ids print as null.
func idText(v record.Value) string {
	if record.IsNull(v) {
		return "null"
	}
	return record.Text(v)
}
