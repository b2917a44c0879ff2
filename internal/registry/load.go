package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/paramkit/internal/ctxlog"
	"github.com/specialistvlad/paramkit/internal/fsutil"
	"github.com/specialistvlad/paramkit/internal/manifest"
	"github.com/specialistvlad/paramkit/internal/schema"
)

// sourced is a manifest definition together with the file it came from.
type sourced struct {
	def  *manifest.Definition
	file string
}

// LoadSchemasRecursively reads every .hcl file under schemasPath and
// registers the schemas they declare. Nothing is registered unless the
// whole tree loads: parse errors, duplicate names, unknown bases and
// inheritance cycles all abort the load.
func (r *Registry) LoadSchemasRecursively(ctx context.Context, schemasPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading schemas from path...", "path", schemasPath)

	filePaths, err := fsutil.FindFilesByExtension(schemasPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk schemas directory", "path", schemasPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl schema files found in path", "path", schemasPath)
		return nil
	}

	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()
	pending := make(map[string]sourced)
	var order []string

	for _, filePath := range filePaths {
		defs, err := manifest.LoadSchemaFile(parser, filePath)
		if err != nil {
			return err
		}

		for _, def := range defs {
			if prev, dup := pending[def.Name]; dup {
				return fmt.Errorf("schema '%s' in %s is already defined in %s", def.Name, filePath, prev.file)
			}
			if _, dup := r.schemas[def.Name]; dup {
				return fmt.Errorf("schema '%s' in %s is already registered", def.Name, filePath)
			}
			pending[def.Name] = sourced{def: def, file: filePath}
			order = append(order, def.Name)
		}
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath, "schemas", len(defs))
	}

	built := make(map[string]*schema.Schema, len(pending))
	for _, name := range order {
		if _, err := r.resolve(name, pending, built, nil); err != nil {
			return err
		}
	}

	for _, name := range order {
		r.Register(built[name])
	}

	logger.Info("Registry loaded successfully.", "schemas_loaded", len(order))
	return nil
}

// resolve builds the pending schema called name after its bases. stack
// holds the names being resolved, outermost first, to report cycles.
func (r *Registry) resolve(name string, pending map[string]sourced, built map[string]*schema.Schema, stack []string) (*schema.Schema, error) {
	if s, ok := built[name]; ok {
		return s, nil
	}
	for i, n := range stack {
		if n == name {
			cycle := append(append([]string(nil), stack[i:]...), name)
			return nil, fmt.Errorf("schema inheritance cycle: %s", strings.Join(cycle, " -> "))
		}
	}

	src := pending[name]
	stack = append(stack, name)

	bases := make([]*schema.Schema, 0, len(src.def.Extends))
	for _, baseName := range src.def.Extends {
		if s, ok := r.schemas[baseName]; ok {
			bases = append(bases, s)
			continue
		}
		if _, ok := pending[baseName]; !ok {
			return nil, fmt.Errorf("schema '%s' in %s extends unknown schema '%s'", name, src.file, baseName)
		}
		base, err := r.resolve(baseName, pending, built, stack)
		if err != nil {
			return nil, err
		}
		bases = append(bases, base)
	}

	s, err := src.def.Build(bases...)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema '%s' from %s: %w", name, src.file, err)
	}
	built[name] = s
	return s, nil
}
