package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/paramkit/internal/ctxlog"
	"github.com/specialistvlad/paramkit/internal/manifest"
	"github.com/specialistvlad/paramkit/internal/params"
	"github.com/specialistvlad/paramkit/internal/schema"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidValues is wrapped by every error reporting values that do not
// satisfy their schema.
var ErrInvalidValues = errors.New("invalid values")

// CheckResult is the outcome of checking one values file.
type CheckResult struct {
	File string
	// Set is the populated parameter set, nil when Err is set.
	Set *params.Set
	// Supplied lists the names the file set explicitly, sorted.
	Supplied []string
	Err      error
}

// Sources maps every name in the result's set to "file" or "default".
func (r CheckResult) Sources() map[string]string {
	out := make(map[string]string)
	if r.Set == nil {
		return out
	}
	for _, name := range r.Set.Names() {
		out[name] = "default"
	}
	for _, name := range r.Supplied {
		out[name] = "file"
	}
	return out
}

// CheckFiles validates every values file against the schema called
// schemaName. Files are checked concurrently, each into its own set, and
// the results come back in the order of files. Per-file failures are
// reported in the results; the returned error is only set when the
// schema is unknown or ctx is cancelled.
func (a *App) CheckFiles(ctx context.Context, schemaName string, files ...string) ([]CheckResult, error) {
	ctx = a.withLogger(ctx)
	s, err := a.schema(schemaName)
	if err != nil {
		return nil, err
	}

	results := make([]CheckResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if a.config.Workers > 0 {
		g.SetLimit(a.config.Workers)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(ctx, s, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(ctx context.Context, s *schema.Schema, file string) CheckResult {
	logger := ctxlog.FromContext(ctx).With("file", file, "schema", s.Name())
	logger.Debug("Checking values file...")

	res := CheckResult{File: file}
	// A parser caches files and is not safe for concurrent use.
	values, err := manifest.LoadValuesFile(hclparse.NewParser(), file, s)
	if err != nil {
		logger.Debug("Values file failed to load.", "error", err)
		res.Err = err
		return res
	}
	for name := range values {
		res.Supplied = append(res.Supplied, name)
	}
	sort.Strings(res.Supplied)

	set, err := s.Instantiate(values)
	if err != nil {
		logger.Debug("Values file failed validation.", "error", err)
		res.Err = err
		return res
	}
	res.Set = set
	logger.Debug("Values file is valid.", "params", set.Len())
	return res
}

// Check validates the values files like CheckFiles and renders the
// outcome: a table of values for every valid file, the list of problems
// for every other one. It fails if any file is invalid.
func (a *App) Check(ctx context.Context, schemaName string, files ...string) error {
	results, err := a.CheckFiles(ctx, schemaName, files...)
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(a.outW)
		}
		if r.Err != nil {
			failed++
			renderFailure(a.outW, r.File, r.Err)
			continue
		}
		renderSuccess(a.outW, r.File)
		renderSet(a.outW, r.Set, r.Sources())
	}

	a.logger.Info("Check finished.", "schema", schemaName, "files", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s) failed validation against schema '%s'", ErrInvalidValues, failed, len(results), schemaName)
	}
	return nil
}
