package app

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/paramkit/internal/manifest"
	"github.com/specialistvlad/paramkit/internal/transport"
)

// Export validates valuesFile against the schema called schemaName and
// writes the resulting parameter set to w as a transport bundle.
func (a *App) Export(ctx context.Context, schemaName, valuesFile string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := a.logger
	s, err := a.schema(schemaName)
	if err != nil {
		return err
	}

	values, err := manifest.LoadValuesFile(hclparse.NewParser(), valuesFile, s)
	if err != nil {
		return err
	}
	set, err := s.Instantiate(values)
	if err != nil {
		return fmt.Errorf("%w in %s:\n%w", ErrInvalidValues, valuesFile, err)
	}

	b := transport.NewBundle(s.Name(), set)
	if err := transport.Encode(w, b); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	logger.Info("Bundle exported.", "id", b.ID, "schema", b.Schema, "params", len(b.Params))
	return nil
}

// ImportOptions controls how Import treats and renders a bundle.
type ImportOptions struct {
	// Verify re-validates every value against the schema. Bundles are
	// trusted otherwise.
	Verify bool
	// AsValues renders the set as a values file instead of a table.
	AsValues bool
}

// Import decodes a transport bundle from r, binds it to its schema and
// renders it.
func (a *App) Import(ctx context.Context, r io.Reader, opts ImportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := a.logger

	b, err := transport.Decode(r)
	if err != nil {
		return err
	}
	s, err := a.schema(b.Schema)
	if err != nil {
		return fmt.Errorf("bundle %s: %w", b.ID, err)
	}
	logger.Debug("Bundle decoded.", "id", b.ID, "schema", b.Schema, "params", len(b.Params))

	set := b.Set(s)
	if opts.Verify {
		values := make(map[string]any, len(b.Params))
		for _, e := range b.Params {
			values[e.Name] = e.Value
		}
		if _, err := s.Instantiate(values); err != nil {
			return fmt.Errorf("%w in bundle %s:\n%w", ErrInvalidValues, b.ID, err)
		}
		logger.Debug("Bundle verified.", "id", b.ID)
	}

	if opts.AsValues {
		return manifest.WriteValues(a.outW, set)
	}
	fmt.Fprintf(a.outW, "Bundle %s (schema %s)\n", b.ID, b.Schema)
	renderSet(a.outW, set, nil)
	return nil
}

// Template writes a values file skeleton for the schema called schemaName.
func (a *App) Template(ctx context.Context, schemaName string, w io.Writer) error {
	s, err := a.schema(schemaName)
	if err != nil {
		return err
	}
	a.logger.Debug("Writing values template.", "schema", s.Name())
	return manifest.WriteTemplate(w, s)
}

// ListSchemas renders every registered schema with its parameters.
func (a *App) ListSchemas(ctx context.Context) error {
	schemas := a.registry.Schemas()
	a.logger.Debug("Listing schemas.", "count", len(schemas))
	renderSchemas(a.outW, schemas)
	return nil
}
