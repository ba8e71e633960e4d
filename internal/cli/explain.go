package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/engine"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query...>",
		Short: "Show how a query is tokenized and parsed",
		Long: `Show the tokens and the parsed form of a query without running it.

The parsed form lists OR groups, each a conjunction of conditions, and the
ordering clause if any.

Examples:
  sift explain "city:Berlin age >= 30 OR name~=^B ORDER BY age DESC"
  sift explain 'note:"two words"' --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, queryText(args), cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, text string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ex := engine.Explain(text)

	if f.IsJSON() {
		return f.Success(ex)
	}

	w := f.Writer
	quoted := make([]string, len(ex.Tokens))
	for i, tok := range ex.Tokens {
		quoted[i] = strconv.Quote(tok)
	}
	fmt.Fprintf(w, "Tokens: [%s]\n", strings.Join(quoted, " "))
	fmt.Fprintf(w, "Query:  %s\n", ex.Query)

	if ex.Query.MatchesAll() {
		fmt.Fprintln(w, "Filter: matches every row")
	}
	for i, g := range ex.Query.OrGroups {
		fmt.Fprintf(w, "Group %d:\n", i+1)
		for _, c := range g {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	if ex.Query.OrderBy != nil {
		fmt.Fprintf(w, "Order:  %s %s\n", ex.Query.OrderBy.Field, ex.Query.OrderBy.Direction)
	}
	return nil
}
