package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/paramkit/internal/ctxlog"
	"github.com/specialistvlad/paramkit/internal/param"
)

// ValidateRegistry checks the registered schemas for declarations that are
// legal but almost certainly mistakes. A mandatory parameter with a
// default can never be missing, so it is reported as an error; untyped
// parameters only produce a warning.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, s := range r.Schemas() {
		for name, f := range s.Fields() {
			if f.Origin != s.Name() {
				continue // Reported on the schema that declares it.
			}
			d := f.Descriptor

			if d.Kind() == param.KindAny {
				logger.Warn("Schema has a parameter with 'type = any', which disables validation. Consider a specific type.", "schema", s.Name(), "param", name)
			}

			if _, hasDefault := d.Default(); hasDefault && d.Mandatory() && d.Kind() != param.KindConst {
				errs = append(errs, fmt.Sprintf("schema '%s', param '%s': declared mandatory but has a default, so it can never be missing", s.Name(), name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
