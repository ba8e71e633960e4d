package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/schema"
	"github.com/roach88/sift/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	SourceTable string // table of a SQLite source dataset
}

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	Database string          `json:"database"`
	Table    string          `json:"table"`
	Rows     int             `json:"rows"`
	Declared bool            `json:"declared"`
	Types    *schema.TypeMap `json:"types"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <dataset> <db>",
		Short: "Write a dataset into a SQLite database",
		Long: `Write a dataset into a table of a SQLite database.

The database is created if it doesn't exist. An existing table of the same
name is replaced. Field types (declared, from --types, or inferred) are
stored with the table so later queries read it under the same types.

Examples:
  sift import people.json people.db
  sift import people.yaml shop.db --table customers
  sift import old.db new.db --source-table orders --table orders_2024`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().String("table", "", "destination table (default: dataset name)")
	cmd.Flags().String("types", "", `field types for undeclared datasets, e.g. "age:number,created:date"`)
	cmd.Flags().StringVar(&opts.SourceTable, "source-table", "", "table to read when the dataset is a SQLite database")

	return cmd
}

func runImport(opts *ImportOptions, path, dbPath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := opts.logger()
	ctx := cmd.Context()

	ds, err := opts.loadDataset(ctx, f, path, opts.SourceTable)
	if err != nil {
		return err
	}
	types, declared, err := opts.resolvedTypes(f, ds)
	if err != nil {
		return err
	}

	table := opts.settings().Table
	if table == "" {
		table = ds.Name
	}

	log.Debug("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.WriteTable(ctx, table, types, ds.Rows); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("failed to write table %q", table), err)
	}
	log.Info("table imported",
		slog.String("table", table),
		slog.Int("rows", len(ds.Rows)),
		slog.Bool("declared", declared),
	)

	if f.IsJSON() {
		return f.Success(ImportResult{
			Database: dbPath,
			Table:    table,
			Rows:     len(ds.Rows),
			Declared: declared,
			Types:    types,
		})
	}

	fmt.Fprintf(f.Writer, "✓ Imported %d row(s) into %s.%s\n", len(ds.Rows), dbPath, table)
	f.VerboseLog("types: %s", types)
	return nil
}
