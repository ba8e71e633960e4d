package cli

import (
	"context"
	"strings"

	"github.com/roach88/sift/internal/config"
	"github.com/roach88/sift/internal/dataset"
	"github.com/roach88/sift/internal/schema"
)

// settings returns the resolved configuration, falling back to defaults when
// the root pre-run has not happened.
func (o *RootOptions) settings() *config.Config {
	if o.Config == nil {
		def := config.Defaults()
		return &def
	}
	return o.Config
}

// loadDataset loads path. table selects the table of a SQLite dataset.
func (o *RootOptions) loadDataset(ctx context.Context, f *OutputFormatter, path, table string) (*dataset.Dataset, error) {
	o.logger().Debug("loading dataset", "path", path, "table", table)

	ds, err := dataset.Load(ctx, path, dataset.Options{Table: table})
	if err != nil {
		return nil, f.Fail(ExitCommandError, errorCode(err, ErrCodeGeneric), "failed to load dataset", err)
	}
	o.logger().Debug("dataset loaded",
		"name", ds.Name,
		"rows", len(ds.Rows),
		"columns", len(ds.Columns),
		"declared", ds.Types != nil,
	)
	return ds, nil
}

// configuredTypes parses the --types declaration. It returns nil when none
// is configured.
func (o *RootOptions) configuredTypes(f *OutputFormatter) (*schema.TypeMap, error) {
	text := strings.TrimSpace(o.settings().Types)
	if text == "" {
		return nil, nil
	}
	types, err := schema.ParseTypeMap(text)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidTypes, "invalid --types", err)
	}
	return types, nil
}

// datasetTypes picks the types a dataset is queried under: its own
// declarations, else --types, else nil for inference.
func (o *RootOptions) datasetTypes(f *OutputFormatter, ds *dataset.Dataset) (*schema.TypeMap, error) {
	if ds.Types != nil {
		return ds.Types, nil
	}
	return o.configuredTypes(f)
}

// resolvedTypes is datasetTypes with inference applied, for commands that
// must show or store concrete types.
func (o *RootOptions) resolvedTypes(f *OutputFormatter, ds *dataset.Dataset) (*schema.TypeMap, bool, error) {
	types, err := o.datasetTypes(f, ds)
	if err != nil {
		return nil, false, err
	}
	if types != nil {
		return types, true, nil
	}
	return schema.InferTypes(ds.Rows, ds.Columns...), false, nil
}

// queryText joins query arguments so unquoted queries work:
// sift filter people.json age '>=' 30
func queryText(args []string) string {
	return strings.Join(args, " ")
}
