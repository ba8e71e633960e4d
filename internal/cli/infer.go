package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/schema"
)

// InferResult is the JSON payload of the infer command.
type InferResult struct {
	Dataset  string          `json:"dataset"`
	Declared bool            `json:"declared"` // false when types were inferred
	Rows     int             `json:"rows"`
	Types    *schema.TypeMap `json:"types"`
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infer <dataset>",
		Short: "Show the field types a dataset is queried under",
		Long: `Show the field types a dataset is queried under, in column order.

Declared types (from the dataset or --types) are shown as is. Otherwise
each field takes the type of its first non-empty value.

Examples:
  sift infer people.json
  sift infer shop.db --table orders --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(rootOpts, args[0], cmd)
		},
	}

	cmd.Flags().String("types", "", `field types for undeclared datasets, e.g. "age:number,created:date"`)
	cmd.Flags().String("table", "", "table to read from a SQLite dataset")

	return cmd
}

func runInfer(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ds, err := opts.loadDataset(cmd.Context(), f, path, opts.settings().Table)
	if err != nil {
		return err
	}
	types, declared, err := opts.resolvedTypes(f, ds)
	if err != nil {
		return err
	}

	if f.IsJSON() {
		return f.Success(InferResult{
			Dataset:  ds.Name,
			Declared: declared,
			Rows:     len(ds.Rows),
			Types:    types,
		})
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, field := range types.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", field.Name, field.Type)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	source := "inferred"
	if declared {
		source = "declared"
	}
	f.VerboseLog("%s: %d field(s) %s from %d row(s)", ds.Name, types.Len(), source, len(ds.Rows))
	return nil
}
