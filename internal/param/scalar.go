// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AnyParam accepts every value unchanged.
type AnyParam struct{ base }

// Any returns a descriptor that performs no type check.
func Any(opts ...Option) (*AnyParam, error) {
	p := &AnyParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AnyParam) Kind() Kind     { return KindAny }
func (p *AnyParam) String() string { return string(KindAny) }

func (p *AnyParam) Validate(raw any) (any, error) {
	return raw, nil
}

// IntParam accepts integers, integral floats and decimal integer text.
// Fractional floats and booleans are rejected rather than truncated or
// converted to 0 and 1.
type IntParam struct{ base }

// Int returns an integer descriptor.
func Int(opts ...Option) (*IntParam, error) {
	p := &IntParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *IntParam) Kind() Kind     { return KindInt }
func (p *IntParam) String() string { return string(KindInt) }

func (p *IntParam) Validate(raw any) (any, error) {
	if raw == nil {
		return nil, invalid(KindInt, raw, "value must be a valid integer")
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return nil, invalid(KindInt, raw, "value is out of integer range")
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > math.MaxInt {
			return nil, invalid(KindInt, raw, "value is out of integer range")
		}
		return int(n), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, invalid(KindInt, raw, "value must be a valid integer")
		}
		if f < math.MinInt || f >= math.MaxInt {
			return nil, invalid(KindInt, raw, "value is out of integer range")
		}
		return int(f), nil
	case reflect.String:
		n, err := strconv.Atoi(strings.TrimSpace(rv.String()))
		if err != nil {
			return nil, invalid(KindInt, raw, "value must be a valid integer")
		}
		return n, nil
	default:
		return nil, invalid(KindInt, raw, "value must be a valid integer")
	}
}

// FloatParam accepts numbers and floating point text.
type FloatParam struct{ base }

// Float returns a floating point descriptor.
func Float(opts ...Option) (*FloatParam, error) {
	p := &FloatParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FloatParam) Kind() Kind     { return KindFloat }
func (p *FloatParam) String() string { return string(KindFloat) }

func (p *FloatParam) Validate(raw any) (any, error) {
	if raw == nil {
		return nil, invalid(KindFloat, raw, "value must be a valid float")
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return nil, invalid(KindFloat, raw, "value must be a valid float")
		}
		return f, nil
	default:
		return nil, invalid(KindFloat, raw, "value must be a valid float")
	}
}

// StrParam converts any value to its string form. The result must be
// valid UTF-8.
type StrParam struct{ base }

// Str returns a string descriptor.
func Str(opts ...Option) (*StrParam, error) {
	p := &StrParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *StrParam) Kind() Kind     { return KindString }
func (p *StrParam) String() string { return string(KindString) }

func (p *StrParam) Validate(raw any) (any, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, invalid(KindString, raw, "value must be a string")
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		// fmt recovers from nil receivers and prints "<nil>".
		if rv := reflect.ValueOf(raw); rv.Kind() == reflect.String {
			s = rv.String()
		} else {
			s = fmt.Sprint(raw)
		}
	}

	if !utf8.ValidString(s) {
		return nil, invalid(KindString, raw, "value must be valid UTF-8 text")
	}
	return s, nil
}

// BoolParam accepts only genuine booleans. Text such as "true" is rejected.
type BoolParam struct{ base }

// Bool returns a boolean descriptor.
func Bool(opts ...Option) (*BoolParam, error) {
	p := &BoolParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *BoolParam) Kind() Kind     { return KindBool }
func (p *BoolParam) String() string { return string(KindBool) }

func (p *BoolParam) Validate(raw any) (any, error) {
	if raw != nil {
		if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	}
	return nil, invalid(KindBool, raw, "value must be a boolean")
}

// ConstParam pins a parameter to a single value. Its default is that value,
// and any other value is rejected.
type ConstParam struct {
	base
	value any
}

// Const returns a descriptor that only accepts value.
func Const(value any, opts ...Option) (*ConstParam, error) {
	p := &ConstParam{value: value}
	opts = append(opts, Default(value))
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ConstParam) Kind() Kind { return KindConst }

func (p *ConstParam) String() string {
	return fmt.Sprintf("const(%s)", formatValue(p.value))
}

// Value returns the constant.
func (p *ConstParam) Value() any {
	return p.value
}

func (p *ConstParam) Validate(raw any) (any, error) {
	if !reflect.DeepEqual(raw, p.value) {
		return nil, invalid(KindConst, raw,
			fmt.Sprintf("different value for constant parameter was provided, want %s", formatValue(p.value)))
	}
	return raw, nil
}
