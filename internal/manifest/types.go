package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/paramkit/internal/param"
)

// typeKeywords lists every keyword accepted by a param's `type` attribute.
var typeKeywords = []string{
	"any", "int", "float", "string", "bool",
	"ip", "hostname", "hostname_or_ip",
	"device", "device_or_ip",
	"dict", "list", "choice", "const",
	"ipv4_network", "ipv6_network",
}

// typeExpr is a parsed `type` attribute: a keyword, optionally applied to an
// element type as in list(int).
type typeExpr struct {
	keyword string
	elem    *typeExpr
}

func (t *typeExpr) String() string {
	if t.elem == nil {
		return t.keyword
	}
	return fmt.Sprintf("%s(%s)", t.keyword, t.elem)
}

// typeAttrs are the declaration attributes that parameterize a type.
type typeAttrs struct {
	family    param.Family
	multicast bool
	choices   []any
	value     any
	hasValue  bool
}

// parseTypeExpr reads a type keyword like `int` or a constructor call like
// `list(ip)`.
func parseTypeExpr(expr hcl.Expression) (*typeExpr, hcl.Diagnostics) {
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		if len(traversal) != 1 {
			return nil, invalidTypeDiag(expr)
		}
		name := traversal.RootName()
		if !slices.Contains(typeKeywords, name) {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsupported type",
				Detail:   fmt.Sprintf("The keyword '%s' is not a valid type. Supported types are: %s.", name, strings.Join(typeKeywords, ", ")),
				Subject:  expr.Range().Ptr(),
			}}
		}
		return &typeExpr{keyword: name}, nil
	}

	call, diags := hcl.ExprCall(expr)
	if diags.HasErrors() {
		return nil, invalidTypeDiag(expr)
	}
	if call.Name != "list" && call.Name != "choice" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("'%s' does not take an element type. Only list(...) and choice(...) do.", call.Name),
			Subject:  call.NameRange.Ptr(),
		}}
	}
	if len(call.Arguments) != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   fmt.Sprintf("'%s(...)' takes exactly one element type.", call.Name),
			Subject:  call.ArgsRange.Ptr(),
		}}
	}

	elem, elemDiags := parseTypeExpr(call.Arguments[0])
	if elemDiags.HasErrors() {
		return nil, elemDiags
	}
	if elem.keyword == "choice" || elem.keyword == "const" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid element type",
			Detail:   fmt.Sprintf("'%s' cannot be used as an element type.", elem.keyword),
			Subject:  call.Arguments[0].Range().Ptr(),
		}}
	}
	return &typeExpr{keyword: call.Name, elem: elem}, nil
}

func invalidTypeDiag(expr hcl.Expression) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   "The 'type' attribute must be a type keyword like 'string' or 'ip', or a constructor like 'list(int)'.",
		Subject:  expr.Range().Ptr(),
	}}
}

// descriptor builds the param descriptor for t. Options apply to the
// outermost descriptor only; family and multicast also reach address
// element types.
func (t *typeExpr) descriptor(attrs typeAttrs, opts ...param.Option) (param.Descriptor, error) {
	var elem param.Descriptor
	if t.elem != nil {
		var err error
		elem, err = t.elem.descriptor(typeAttrs{family: attrs.family, multicast: attrs.multicast})
		if err != nil {
			return nil, err
		}
	}

	switch t.keyword {
	case "any":
		return param.Any(opts...)
	case "int":
		return param.Int(opts...)
	case "float":
		return param.Float(opts...)
	case "string":
		return param.Str(opts...)
	case "bool":
		return param.Bool(opts...)
	case "ip":
		return param.IP(attrs.family, attrs.multicast, opts...)
	case "hostname":
		return param.Hostname(opts...)
	case "hostname_or_ip":
		return param.HostnameOrIP(opts...)
	case "device":
		return param.Device(opts...)
	case "device_or_ip":
		return param.DeviceOrIP(opts...)
	case "dict":
		return param.Dict(opts...)
	case "ipv4_network":
		return param.IPv4Network(opts...)
	case "ipv6_network":
		return param.IPv6Network(opts...)
	case "list":
		return param.List(elem, opts...)
	case "choice":
		if len(attrs.choices) == 0 {
			return nil, fmt.Errorf("a choice parameter needs a non-empty 'choices' list")
		}
		choices := attrs.choices
		if elem != nil {
			choices = make([]any, len(attrs.choices))
			for i, c := range attrs.choices {
				choices[i] = adaptValue(elem, c)
			}
		}
		return param.Choice(elem, choices, opts...)
	case "const":
		if !attrs.hasValue {
			return nil, fmt.Errorf("a const parameter needs a 'value' attribute")
		}
		return param.Const(attrs.value, opts...)
	default:
		return nil, fmt.Errorf("unsupported type %q", t.keyword)
	}
}
