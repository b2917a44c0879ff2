package transport

import (
	"fmt"
	"math"
	"net/netip"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/specialistvlad/paramkit/internal/device"
	"github.com/specialistvlad/paramkit/internal/params"
	"gopkg.in/yaml.v3"
)

const (
	tagNull   = "!!null"
	tagBool   = "!!bool"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagStr    = "!!str"
	tagIP     = "!ip"
	tagNet    = "!net"
	tagDevice = "!device"
)

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func encodeMapping(m params.Mapping) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		v, err := encodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", e.Name, err)
		}
		node.Content = append(node.Content, scalar(tagStr, e.Name), v)
	}
	return node, nil
}

func encodeValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return scalar(tagNull, "null"), nil
	case bool:
		return scalar(tagBool, strconv.FormatBool(t)), nil
	case int:
		return scalar(tagInt, strconv.Itoa(t)), nil
	case float64:
		return scalar(tagFloat, formatFloat(t)), nil
	case string:
		if !utf8.ValidString(t) {
			return nil, fmt.Errorf("string %q is not valid UTF-8", t)
		}
		return scalar(tagStr, t), nil
	case netip.Addr:
		return scalar(tagIP, t.String()), nil
	case netip.Prefix:
		return scalar(tagNet, t.String()), nil
	case device.Device:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, fmt.Errorf("nil device %T", t)
		}
		ref := t.Ref()
		if !ref.Valid() {
			return nil, fmt.Errorf("device reference %q cannot be parsed back", ref)
		}
		return scalar(tagDevice, ref.String()), nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, e := range t {
			en, err := encodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			node.Content = append(node.Content, en)
		}
		return node, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			en, err := encodeValue(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			node.Content = append(node.Content, scalar(tagStr, k), en)
		}
		return node, nil
	}

	return encodeReflect(v)
}

// encodeReflect handles the remaining shapes an untyped parameter may hold,
// normalizing them to the forms above.
func encodeReflect(v any) (*yaml.Node, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar(tagInt, strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalar(tagInt, strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return scalar(tagFloat, formatFloat(rv.Float())), nil
	case reflect.String:
		return encodeValue(rv.String())
	case reflect.Bool:
		return scalar(tagBool, strconv.FormatBool(rv.Bool())), nil
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range rv.Len() {
			items[i] = rv.Index(i).Interface()
		}
		return encodeValue(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			m[it.Key().String()] = it.Value().Interface()
		}
		return encodeValue(m)
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func decodeMapping(node *yaml.Node) (params.Mapping, error) {
	if node.Kind == 0 {
		return params.Mapping{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: params must be a mapping", node.Line)
	}

	m := make(params.Mapping, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, vn := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: parameter names must be scalars", k.Line)
		}
		if seen[k.Value] {
			return nil, fmt.Errorf("line %d: parameter %q appears twice", k.Line, k.Value)
		}
		seen[k.Value] = true

		v, err := decodeValue(vn)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k.Value, err)
		}
		m = append(m, params.Entry{Name: k.Value, Value: v})
	}
	return m, nil
}

func decodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeValue(node.Alias)

	case yaml.SequenceNode:
		out := make([]any, len(node.Content))
		for i, c := range node.Content {
			v, err := decodeValue(c)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil

	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: dictionary keys must be scalars", k.Line)
			}
			v, err := decodeValue(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.Value, err)
			}
			out[k.Value] = v
		}
		return out, nil

	case yaml.ScalarNode:
		return decodeScalar(node)

	default:
		return nil, fmt.Errorf("line %d: unexpected YAML node", node.Line)
	}
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch tag := node.ShortTag(); tag {
	case tagNull:
		return nil, nil
	case tagStr:
		return node.Value, nil
	case tagBool:
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case tagInt:
		var n int
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return n, nil
	case tagFloat:
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case tagIP:
		addr, err := netip.ParseAddr(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return addr, nil
	case tagNet:
		prefix, err := netip.ParsePrefix(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return prefix, nil
	case tagDevice:
		ref, err := device.ParseRef(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported tag %s", node.Line, tag)
	}
}
