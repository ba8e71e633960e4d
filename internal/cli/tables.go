package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/store"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <db>",
		Short: "List the tables of a SQLite database",
		Long: `List the tables of a SQLite database that can be queried with --table.

The database is opened read-only.

Example:
  sift tables shop.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTables(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := store.OpenReadOnly(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to open database", err)
	}
	defer st.Close()

	tables, err := st.Tables(cmd.Context())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to list tables", err)
	}

	if f.IsJSON() {
		if tables == nil {
			tables = []string{}
		}
		return f.Success(map[string]any{"tables": tables})
	}

	for _, t := range tables {
		fmt.Fprintln(f.Writer, t)
	}
	return nil
}
