// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"fmt"
	"strings"
)

// ValidationError reports a value that a descriptor rejected.
type ValidationError struct {
	// Param is the parameter name. Descriptors leave it empty; the parameter
	// set fills it in.
	Param string

	// Kind is the rule that rejected the value.
	Kind Kind

	// Path holds list indexes, outermost first, when the rejected value was
	// an element of a list.
	Path []int

	// Value is the offending raw value.
	Value any

	Reason string

	// Err holds the underlying failures, if any.
	Err error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Param != "" {
		fmt.Fprintf(&b, "parameter %q: ", e.Param)
	}
	if len(e.Path) > 0 {
		b.WriteString("element ")
		for _, i := range e.Path {
			fmt.Fprintf(&b, "[%d]", i)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "invalid %s value %s: %s", e.Kind, formatValue(e.Value), e.Reason)
	if e.Err != nil {
		b.WriteString(" (")
		b.WriteString(strings.ReplaceAll(e.Err.Error(), "\n", "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// WithParam returns a copy of e attributed to the named parameter.
func (e *ValidationError) WithParam(name string) *ValidationError {
	c := *e
	c.Param = name
	return &c
}

// atIndex returns a copy of e nested one list level deeper, at index i.
func (e *ValidationError) atIndex(i int) *ValidationError {
	c := *e
	c.Path = append([]int{i}, e.Path...)
	return &c
}

func invalid(kind Kind, value any, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Value: value, Reason: reason}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v (%T)", t, t)
	}
}
