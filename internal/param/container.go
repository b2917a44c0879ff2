// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// DictParam accepts any map with string keys and stores it as
// map[string]any. Entries are not validated, but nested maps, slices and
// named scalar types are normalized to their plain forms.
type DictParam struct{ base }

// Dict returns a dictionary descriptor.
func Dict(opts ...Option) (*DictParam, error) {
	p := &DictParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *DictParam) Kind() Kind     { return KindDict }
func (p *DictParam) String() string { return string(KindDict) }

func (p *DictParam) Validate(raw any) (any, error) {
	if raw != nil {
		rv := reflect.ValueOf(raw)
		if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
			return plain(raw), nil
		}
	}
	return nil, invalid(KindDict, raw, fmt.Sprintf("value must be a dictionary, not %T", raw))
}

// plain rewrites untyped containers and named scalars into the forms the
// typed descriptors produce: []any, map[string]any, int, float64, string
// and bool. Structs, addresses and device values are kept as they are.
func plain(v any) any {
	switch v.(type) {
	case nil, bool, int, float64, string:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = plain(iter.Value().Interface())
		}
		return out
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u)
		}
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// ListParam accepts slices and arrays and stores them as []any. With an
// element descriptor every element is validated in order and the first
// failure is reported with its index. Without one, elements are
// normalized the way DictParam normalizes its entries.
type ListParam struct {
	base
	elem Descriptor
}

// List returns a list descriptor. elem may be nil to accept elements
// unchecked.
func List(elem Descriptor, opts ...Option) (*ListParam, error) {
	p := &ListParam{elem: elem}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ListParam) Kind() Kind { return KindList }

func (p *ListParam) String() string {
	if p.elem == nil {
		return string(KindList)
	}
	return fmt.Sprintf("%s(%s)", KindList, p.elem)
}

// Elem returns the element descriptor, or nil.
func (p *ListParam) Elem() Descriptor { return p.elem }

func (p *ListParam) Validate(raw any) (any, error) {
	items, ok := toList(raw)
	if !ok {
		return nil, invalid(KindList, raw, fmt.Sprintf("value must be a list, not %T", raw))
	}
	if p.elem == nil {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = plain(item)
		}
		return out, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := p.elem.Validate(item)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return nil, ve.atIndex(i)
			}
			return nil, &ValidationError{Kind: p.elem.Kind(), Path: []int{i}, Value: item, Reason: "element failed type check", Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func toList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case []any:
		if v == nil {
			return []any{}, true
		}
		return v, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ChoiceParam accepts one of a fixed set of values. The raw value is first
// normalized through the element descriptor, if any, and then checked for
// membership.
type ChoiceParam struct {
	base
	elem    Descriptor
	choices []any
}

// Choice returns a descriptor accepting one of choices. Each choice is
// validated through elem at construction; duplicates are dropped.
func Choice(elem Descriptor, choices []any, opts ...Option) (*ChoiceParam, error) {
	if len(choices) == 0 {
		return nil, errors.New("choice parameter needs at least one allowed value")
	}

	p := &ChoiceParam{elem: elem}
	for i, c := range choices {
		if elem != nil {
			v, err := elem.Validate(c)
			if err != nil {
				return nil, fmt.Errorf("invalid choice #%d: %w", i, err)
			}
			c = v
		}
		if !p.contains(c) {
			p.choices = append(p.choices, c)
		}
	}

	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ChoiceParam) Kind() Kind { return KindChoice }

func (p *ChoiceParam) String() string {
	if p.elem == nil {
		return string(KindChoice)
	}
	return fmt.Sprintf("%s(%s)", KindChoice, p.elem)
}

// Elem returns the element descriptor, or nil.
func (p *ChoiceParam) Elem() Descriptor { return p.elem }

// Choices returns the allowed values in declaration order.
func (p *ChoiceParam) Choices() []any {
	return append([]any(nil), p.choices...)
}

func (p *ChoiceParam) Validate(raw any) (any, error) {
	v := raw
	if p.elem != nil {
		var err error
		v, err = p.elem.Validate(raw)
		if err != nil {
			return nil, &ValidationError{Kind: KindChoice, Value: raw, Reason: p.notOneOf(), Err: err}
		}
	}
	if !p.contains(v) {
		return nil, invalid(KindChoice, raw, p.notOneOf())
	}
	return v, nil
}

func (p *ChoiceParam) contains(v any) bool {
	for _, c := range p.choices {
		if reflect.DeepEqual(c, v) {
			return true
		}
	}
	return false
}

func (p *ChoiceParam) notOneOf() string {
	names := make([]string, len(p.choices))
	for i, c := range p.choices {
		names[i] = formatValue(c)
	}
	return fmt.Sprintf("value must be one of [%s]", strings.Join(names, ", "))
}
