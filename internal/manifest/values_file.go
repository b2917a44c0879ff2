package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/paramkit/internal/schema"
)

// LoadValuesFile parses the values file at path. See DecodeValues.
func LoadValuesFile(parser *hclparse.Parser, path string, s *schema.Schema) (map[string]any, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	values, diags := DecodeValues(file.Body, s)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid values file %s: %w", path, diags)
	}
	return values, nil
}

// DecodeValues reads every top-level attribute of body as a raw parameter
// value. Values for parameters that s declares with a device type are
// turned into device references; nothing is validated here, and names s
// does not declare are passed through for the schema to reject. s may be
// nil.
func DecodeValues(body hcl.Body, s *schema.Schema) (map[string]any, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		v, d := literalValue(attr)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		if s != nil {
			if desc, ok := s.Lookup(name); ok {
				v = adaptValue(desc, v)
			}
		}
		values[name] = v
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return values, diags
}

// ParseValues parses src as a values file. It is the in-memory counterpart
// of LoadValuesFile.
func ParseValues(src []byte, filename string, s *schema.Schema) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	values, diags := DecodeValues(file.Body, s)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid values file %s: %w", filename, diags)
	}
	return values, nil
}
