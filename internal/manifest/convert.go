package manifest

import (
	"fmt"
	"net/netip"

	"github.com/specialistvlad/paramkit/internal/device"
	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative converts a literal cty.Value into the plain Go values the
// param descriptors accept. Whole numbers become int, other numbers
// float64, sequences []any and objects map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var i int
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k.AsString(), err)
			}
			out[k.AsString()] = nv
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// nativeToCty converts a validated parameter value back into cty so it can
// be written out as HCL. Addresses, networks and devices are written in
// their text form.
func nativeToCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case device.Device:
		return cty.StringVal(t.Ref().String()), nil
	case netip.Addr, netip.Prefix:
		return cty.StringVal(fmt.Sprint(t)), nil
	case []any:
		vals := make([]cty.Value, len(t))
		for i, e := range t {
			cv, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(t))
		for k, e := range t {
			cv, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// adaptValue turns text into the domain values HCL cannot express
// directly. Device parameters take "host/name" references; device-or-IP
// parameters take an address first. Everything else is returned as is and
// left to the descriptor.
func adaptValue(d param.Descriptor, v any) any {
	switch p := d.(type) {
	case *param.DeviceParam:
		if s, ok := v.(string); ok {
			if ref, err := device.ParseRef(s); err == nil {
				return ref
			}
		}
	case *param.DeviceOrIPParam:
		if s, ok := v.(string); ok {
			if addr, err := netip.ParseAddr(s); err == nil {
				return addr
			}
			if ref, err := device.ParseRef(s); err == nil {
				return ref
			}
		}
	case *param.ListParam:
		items, ok := v.([]any)
		if !ok || p.Elem() == nil {
			return v
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = adaptValue(p.Elem(), item)
		}
		return out
	case *param.ChoiceParam:
		if p.Elem() != nil {
			return adaptValue(p.Elem(), v)
		}
	}
	return v
}
