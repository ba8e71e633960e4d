package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/engine"
	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Dataset string // take types from a dataset instead of --types
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Query    string          `json:"query"`
	Parsed   string          `json:"parsed"`
	Types    *schema.TypeMap `json:"types,omitempty"`
	Valid    bool            `json:"valid"`
	Warnings []string        `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <query...>",
		Short: "Check a query against field types without running it",
		Long: `Check a query for problems that make it silently match nothing.

Every query runs; problems degrade to non-matches. validate reports them:
unknown fields, malformed ~= patterns, ~= or ordering operators on boolean
fields, and ORDER BY on an unknown field.

Without --types or --dataset only patterns are checked.

Exit codes:
  0 - No warnings
  1 - One or more warnings
  2 - Command error

Examples:
  sift validate "agee > 30" --types "name:string,age:number"
  sift validate "active~=^t" --dataset people.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, queryText(args), cmd)
		},
	}

	cmd.Flags().String("types", "", `field types, e.g. "age:number,created:date"`)
	cmd.Flags().String("table", "", "table to read from a SQLite dataset")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "take field types from this dataset")

	return cmd
}

func runValidate(opts *ValidateOptions, text string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var types *schema.TypeMap
	var err error
	if opts.Dataset != "" {
		ds, lerr := opts.loadDataset(cmd.Context(), f, opts.Dataset, opts.settings().Table)
		if lerr != nil {
			return lerr
		}
		types, _, err = opts.resolvedTypes(f, ds)
	} else {
		types, err = opts.configuredTypes(f)
	}
	if err != nil {
		return err
	}

	result := ValidateQuery(text, types)
	if result.Valid {
		return outputValidateSuccess(f, result)
	}
	return outputValidationWarnings(f, result)
}

// outputValidateSuccess outputs a clean validation result.
func outputValidateSuccess(f *OutputFormatter, result ValidationResult) error {
	if f.IsJSON() {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "✓ Query valid: %s\n", result.Parsed)
	return nil
}

// outputValidationWarnings outputs warnings and returns a failure exit.
func outputValidationWarnings(f *OutputFormatter, result ValidationResult) error {
	if f.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeQueryWarnings,
				Message: result.Warnings[0],
			},
		}
		if err := f.Encode(response); err != nil {
			return err
		}
		// Warnings = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("query has %d warning(s)", len(result.Warnings)))
	}

	fmt.Fprintf(f.Writer, "✗ Query has %d warning(s): %s\n", len(result.Warnings), result.Parsed)
	fmt.Fprintln(f.Writer)
	for _, w := range result.Warnings {
		fmt.Fprintf(f.Writer, "  %s: %s\n", ErrCodeQueryWarnings, w)
	}

	// Warnings = exit code 1 (validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("query has %d warning(s)", len(result.Warnings)))
}

// ValidateQuery parses text and checks it against types. A nil types map
// checks patterns only.
func ValidateQuery(text string, types *schema.TypeMap) ValidationResult {
	q := engine.Explain(text).Query
	vr := queryir.Validate(q, types)
	return ValidationResult{
		Query:    text,
		Parsed:   q.String(),
		Types:    types,
		Valid:    vr.OK,
		Warnings: vr.Warnings,
	}
}
