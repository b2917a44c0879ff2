// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package params

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/specialistvlad/paramkit/internal/deepcopy"
	"github.com/specialistvlad/paramkit/internal/param"
)

// Resolver returns the descriptor declared for a parameter name.
type Resolver interface {
	Name() string
	Lookup(name string) (param.Descriptor, bool)
}

// Cloner is implemented by values that copy themselves when a Set is
// converted to or from a Mapping.
type Cloner = deepcopy.Cloner

// Set is an ordered collection of validated parameter values.
type Set struct {
	resolver Resolver
	order    []string
	values   map[string]any
}

// New returns an empty set bound to r. A nil r gives an unbound set, which
// can be read and loaded from a mapping but rejects Set.
func New(r Resolver) *Set {
	return &Set{
		resolver: r,
		values:   make(map[string]any),
	}
}

// FromMapping builds a set from m. Values are deep-copied and trusted: they
// are not validated again.
func FromMapping(r Resolver, m Mapping) *Set {
	s := New(r)
	s.LoadMapping(m)
	return s
}

// Resolver returns the resolver the set is bound to, or nil.
func (s *Set) Resolver() Resolver {
	return s.resolver
}

// Set validates raw with the descriptor declared for name and stores the
// result. A name already present keeps its position. On error the set is
// left unchanged.
func (s *Set) Set(name string, raw any) error {
	if s.resolver == nil {
		return &NameError{Name: name}
	}
	d, ok := s.resolver.Lookup(name)
	if !ok {
		return &NameError{Name: name, Owner: s.resolver.Name()}
	}

	v, err := d.Validate(raw)
	if err != nil {
		var ve *param.ValidationError
		if errors.As(err, &ve) {
			return ve.WithParam(name)
		}
		return fmt.Errorf("parameter %q: %w", name, err)
	}

	s.put(name, v)
	return nil
}

func (s *Set) put(name string, v any) {
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Get returns the value stored under name, or def when there is none.
func (s *Set) Get(name string, def any) any {
	if v, ok := s.values[name]; ok {
		return v
	}
	return def
}

// Lookup returns the value stored under name.
func (s *Set) Lookup(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Contains reports whether a value is stored under name.
func (s *Set) Contains(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes name. Deleting an absent name is a no-op.
func (s *Set) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of stored values.
func (s *Set) Len() int {
	return len(s.order)
}

// Names returns the stored names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// All yields every name and value in insertion order.
func (s *Set) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range s.order {
			if !yield(name, s.values[name]) {
				return
			}
		}
	}
}

// ToMapping returns a deep copy of the set's contents.
func (s *Set) ToMapping() Mapping {
	m := make(Mapping, 0, len(s.order))
	for _, name := range s.order {
		m = append(m, Entry{Name: name, Value: deepcopy.Copy(s.values[name])})
	}
	return m
}

// LoadMapping stores a deep copy of every entry of m, in order, without
// validation. Entries replace values already present.
func (s *Set) LoadMapping(m Mapping) {
	for _, e := range m {
		s.put(e.Name, deepcopy.Copy(e.Value))
	}
}

// String renders one "name = value" line per parameter.
func (s *Set) String() string {
	var b strings.Builder
	for _, name := range s.order {
		fmt.Fprintf(&b, "%s = %v\n", name, s.values[name])
	}
	return b.String()
}

// As returns the value stored under name if it has type T.
func As[T any](s *Set, name string) (T, bool) {
	var zero T
	v, ok := s.values[name]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
