// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/specialistvlad/paramkit/internal/params"
)

// ErrDuplicate is returned when a schema declares the same name twice.
var ErrDuplicate = errors.New("duplicate parameter declaration")

// Field is one declared parameter.
type Field struct {
	Name        string
	Descriptor  param.Descriptor
	Description string

	// Origin names the schema that declared the field.
	Origin string
}

// FieldOption configures a declaration.
type FieldOption func(*Field)

// Describe attaches human readable text to a declaration.
func Describe(text string) FieldOption {
	return func(f *Field) {
		f.Description = text
	}
}

// Schema is an ordered set of parameter declarations.
type Schema struct {
	name        string
	description string
	bases       []string
	order       []string
	fields      map[string]Field
	own         map[string]struct{}
}

// Option configures a schema.
type Option func(*Schema)

// WithDescription sets the schema's description.
func WithDescription(text string) Option {
	return func(s *Schema) {
		s.description = text
	}
}

// New returns an empty schema.
func New(name string, opts ...Option) *Schema {
	s := &Schema{
		name:   name,
		fields: make(map[string]Field),
		own:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Derive returns a schema that starts with the fields of bases.
func Derive(name string, bases ...*Schema) *Schema {
	s := New(name)
	for _, b := range bases {
		s.Extend(b)
	}
	return s
}

// Extend inherits the fields of b in b's order. A name inherited earlier is
// replaced in place; a name s declared itself is kept.
func (s *Schema) Extend(b *Schema) {
	s.bases = append(s.bases, b.name)
	for _, name := range b.order {
		if _, ok := s.own[name]; ok {
			continue
		}
		s.put(b.fields[name])
	}
}

// Declare adds a parameter. Declaring a name this schema already declared
// returns ErrDuplicate; declaring an inherited name overrides it in place.
func (s *Schema) Declare(name string, d param.Descriptor, opts ...FieldOption) error {
	if name == "" {
		return errors.New("parameter name must not be empty")
	}
	if d == nil {
		return fmt.Errorf("parameter %q: descriptor must not be nil", name)
	}
	if _, ok := s.own[name]; ok {
		return fmt.Errorf("%w: %q in schema %q", ErrDuplicate, name, s.name)
	}

	f := Field{Name: name, Descriptor: d, Origin: s.name}
	for _, opt := range opts {
		opt(&f)
	}
	s.own[name] = struct{}{}
	s.put(f)
	return nil
}

// MustDeclare is like Declare but panics on error.
func (s *Schema) MustDeclare(name string, d param.Descriptor, opts ...FieldOption) *Schema {
	if err := s.Declare(name, d, opts...); err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) put(f Field) {
	if _, exists := s.fields[f.Name]; !exists {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Description returns the schema description.
func (s *Schema) Description() string { return s.description }

// Bases returns the names of the schemas this one was derived from.
func (s *Schema) Bases() []string { return slices.Clone(s.bases) }

// Len returns the number of declared parameters.
func (s *Schema) Len() int { return len(s.order) }

// Lookup returns the descriptor declared for name.
func (s *Schema) Lookup(name string) (param.Descriptor, bool) {
	f, ok := s.fields[name]
	return f.Descriptor, ok
}

// Field returns the full declaration for name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields yields every declaration in order.
func (s *Schema) Fields() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, name := range s.order {
			if !yield(name, s.fields[name]) {
				return
			}
		}
	}
}

// NewSet returns an empty parameter set bound to s.
func (s *Schema) NewSet() *params.Set {
	return params.New(s)
}

// ApplyDefaults stores the default of every declared parameter that set
// does not hold yet.
func (s *Schema) ApplyDefaults(set *params.Set) {
	var defaults params.Mapping
	for _, name := range s.order {
		if set.Contains(name) {
			continue
		}
		if def, ok := s.fields[name].Descriptor.Default(); ok {
			defaults = append(defaults, params.Entry{Name: name, Value: def})
		}
	}
	set.LoadMapping(defaults)
}

// CheckMandatory returns a *MissingMandatoryError naming every mandatory
// parameter that set does not hold.
func (s *Schema) CheckMandatory(set *params.Set) error {
	return s.checkMandatory(set, nil)
}

func (s *Schema) checkMandatory(set *params.Set, skip map[string]struct{}) error {
	var missing []string
	for _, name := range s.order {
		if _, ok := skip[name]; ok {
			continue
		}
		if s.fields[name].Descriptor.Mandatory() && !set.Contains(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingMandatoryError{Schema: s.name, Names: missing}
	}
	return nil
}

// Instantiate builds a complete set from values: every supplied value is
// validated in declaration order, defaults fill the gaps and mandatory
// parameters are checked. All failures are returned together, joined, and
// no set is returned unless there are none.
func (s *Schema) Instantiate(values map[string]any) (*params.Set, error) {
	set := s.NewSet()

	var errs []error
	failed := make(map[string]struct{})
	for _, name := range s.order {
		raw, ok := values[name]
		if !ok {
			continue
		}
		if err := set.Set(name, raw); err != nil {
			errs = append(errs, err)
			failed[name] = struct{}{}
		}
	}

	var unknown []string
	for name := range values {
		if _, ok := s.fields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	for _, name := range unknown {
		errs = append(errs, &params.NameError{Name: name, Owner: s.name})
	}

	s.ApplyDefaults(set)
	if err := s.checkMandatory(set, failed); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}
