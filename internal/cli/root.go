package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sift/internal/config"
)

// RootOptions holds global flags and the settings resolved from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogLevel   string
	ConfigPath string

	// Config is resolved before any subcommand runs.
	Config *config.Config

	// Logger writes diagnostics to stderr at the configured level.
	Logger *slog.Logger

	// TraceGenerator allows overriding the trace ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TraceGenerator TraceGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sift CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sift",
		Short: "sift - filter and order tabular records",
		Long: `sift runs a compact query language over tables of records.

A query is a list of conditions joined by AND (juxtaposition) and OR,
optionally followed by ORDER BY <field> [ASC|DESC]:

  city:Berlin age >= 30
  age < 25 OR age > 35 ORDER BY age DESC
  name~=^A email is not empty

Datasets are JSON, YAML, CUE or SQLite files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./sift.yaml if present)")

	// Add subcommands
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewInferCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads configuration and builds the logger for cmd.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig+": invalid configuration", err)
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	o.Config = cfg
	o.Format = cfg.Format

	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig+": invalid configuration", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = newLogger(cmd.ErrOrStderr(), cfg.Format, level)
	o.Logger.Debug("configuration resolved",
		"config_file", cfg.File,
		"format", cfg.Format,
		"id_key", cfg.IDKey,
	)
	return nil
}

// newLogger builds a stderr logger matching the output format.
func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// formatter builds the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	gen := o.TraceGenerator
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   gen.Generate(),
	}
}

// logger returns the resolved logger, or a discarding one when commands run
// without the root's pre-run (direct unit tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
