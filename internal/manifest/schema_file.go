package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/specialistvlad/paramkit/internal/schema"
)

// Definition is a schema block as written in a manifest, before its bases
// are resolved.
type Definition struct {
	Name        string
	Description string

	// Extends names the base schemas, in order.
	Extends []string

	Params    []*ParamDefinition
	DeclRange hcl.Range
}

// ParamDefinition is a fully checked param block.
type ParamDefinition struct {
	Name        string
	Description string

	// Type is the type expression as written, e.g. "list(int)".
	Type       string
	Descriptor param.Descriptor
	DeclRange  hcl.Range
}

var fileBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "schema", LabelNames: []string{"name"}},
	},
}

var schemaBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "extends"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "param", LabelNames: []string{"name"}},
	},
}

// paramBodySchema is the schema for the body of a `param` block. `type` is
// required, but it is checked by hand for a clearer message.
var paramBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "mandatory"},
		{Name: "default"},
		{Name: "family"},
		{Name: "multicast"},
		{Name: "choices"},
		{Name: "value"},
	},
}

// LoadSchemaFile parses the file at path and decodes its schema blocks.
func LoadSchemaFile(parser *hclparse.Parser, path string) ([]*Definition, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	defs, diags := DecodeSchemas(file.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid schema file %s: %w", path, diags)
	}
	return defs, nil
}

// DecodeSchemas decodes every schema block of body.
func DecodeSchemas(body hcl.Body) ([]*Definition, hcl.Diagnostics) {
	content, diags := body.Content(fileBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var defs []*Definition
	seen := make(map[string]bool)
	for _, block := range content.Blocks.OfType("schema") {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate schema definition",
				Detail:   fmt.Sprintf("A schema named '%s' has already been defined in this file.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = true

		def, defDiags := decodeSchemaBlock(block)
		diags = append(diags, defDiags...)
		if def != nil {
			defs = append(defs, def)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return defs, diags
}

func decodeSchemaBlock(block *hcl.Block) (*Definition, hcl.Diagnostics) {
	content, diags := block.Body.Content(schemaBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &Definition{Name: block.Labels[0], DeclRange: block.DefRange}
	diags = append(diags, decodeOptional(content, "description", &def.Description)...)
	diags = append(diags, decodeOptional(content, "extends", &def.Extends)...)

	seen := make(map[string]bool)
	for _, pb := range content.Blocks.OfType("param") {
		name := pb.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate param definition",
				Detail:   fmt.Sprintf("A param named '%s' has already been defined in schema '%s'.", name, def.Name),
				Subject:  &pb.DefRange,
			})
			continue
		}
		seen[name] = true

		p, pDiags := decodeParamBlock(pb)
		diags = append(diags, pDiags...)
		if p != nil {
			def.Params = append(def.Params, p)
		}
	}

	return def, diags
}

func decodeParamBlock(block *hcl.Block) (*ParamDefinition, hcl.Diagnostics) {
	name := block.Labels[0]
	content, diags := block.Body.Content(paramBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	typeAttr, exists := content.Attributes["type"]
	if !exists {
		missing := block.Body.MissingItemRange()
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'type' attribute",
			Detail:   "The 'type' attribute is required for all param blocks.",
			Subject:  &missing,
		})
	}
	t, typeDiags := parseTypeExpr(typeAttr.Expr)
	diags = append(diags, typeDiags...)
	if typeDiags.HasErrors() {
		return nil, diags
	}

	p := &ParamDefinition{Name: name, Type: t.String(), DeclRange: block.DefRange}
	var (
		mandatory bool
		family    string
		attrs     typeAttrs
	)
	diags = append(diags, decodeOptional(content, "description", &p.Description)...)
	diags = append(diags, decodeOptional(content, "mandatory", &mandatory)...)
	diags = append(diags, decodeOptional(content, "family", &family)...)
	diags = append(diags, decodeOptional(content, "multicast", &attrs.multicast)...)
	if diags.HasErrors() {
		return nil, diags
	}

	if family != "" {
		f, err := param.ParseFamily(family)
		if err != nil {
			return nil, append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid address family",
				Detail:   fmt.Sprintf("%s. Use 'ipv4' or 'ipv6'.", err),
				Subject:  content.Attributes["family"].Expr.Range().Ptr(),
			})
		}
		attrs.family = f
	}

	if a, ok := content.Attributes["choices"]; ok {
		v, d := literalValue(a)
		diags = append(diags, d...)
		list, isList := v.([]any)
		if !d.HasErrors() && !isList {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid choices",
				Detail:   "The 'choices' attribute must be a list of allowed values.",
				Subject:  a.Expr.Range().Ptr(),
			})
		}
		attrs.choices = list
	}
	if a, ok := content.Attributes["value"]; ok {
		v, d := literalValue(a)
		diags = append(diags, d...)
		attrs.value, attrs.hasValue = v, true
	}
	if diags.HasErrors() {
		return nil, diags
	}

	var opts []param.Option
	if mandatory {
		opts = append(opts, param.Mandatory())
	}
	desc, err := t.descriptor(attrs, opts...)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid param declaration",
			Detail:   fmt.Sprintf("Param '%s' of type %s cannot be declared: %s.", name, t, err),
			Subject:  &block.DefRange,
		})
	}

	if a, ok := content.Attributes["default"]; ok {
		v, d := literalValue(a)
		diags = append(diags, d...)
		if d.HasErrors() {
			return nil, diags
		}
		if v != nil {
			desc, err = t.descriptor(attrs, append(opts, param.Default(adaptValue(desc, v)))...)
			if err != nil {
				return nil, append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value",
					Detail:   fmt.Sprintf("The default value for '%s' is not valid for its type, '%s': %s.", name, t, err),
					Subject:  a.Expr.Range().Ptr(),
				})
			}
		}
	}

	p.Descriptor = desc
	return p, diags
}

// decodeOptional decodes the named attribute into target when present.
func decodeOptional(content *hcl.BodyContent, name string, target any) hcl.Diagnostics {
	attr, ok := content.Attributes[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}

// literalValue evaluates attr without an evaluation context and converts
// the result to a Go value.
func literalValue(attr *hcl.Attribute) (any, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	v, err := ctyToNative(val)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported value",
			Detail:   fmt.Sprintf("The value of '%s' cannot be used: %s.", attr.Name, err),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	return v, diags
}

// Build creates the schema described by d. bases must be the resolved
// schemas named by d.Extends, in the same order.
func (d *Definition) Build(bases ...*schema.Schema) (*schema.Schema, error) {
	if len(bases) != len(d.Extends) {
		return nil, fmt.Errorf("schema %q extends %d schemas, got %d", d.Name, len(d.Extends), len(bases))
	}

	s := schema.New(d.Name, schema.WithDescription(d.Description))
	for _, b := range bases {
		s.Extend(b)
	}
	for _, p := range d.Params {
		if err := s.Declare(p.Name, p.Descriptor, schema.Describe(p.Description)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ParseSchemas parses src as a schema file. It is the in-memory counterpart
// of LoadSchemaFile.
func ParseSchemas(src []byte, filename string) ([]*Definition, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	defs, diags := DecodeSchemas(file.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid schema file %s: %w", filename, diags)
	}
	return defs, nil
}
