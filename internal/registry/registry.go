package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/paramkit/internal/schema"
)

// Registry maps schema names to schemas.
type Registry struct {
	schemas map[string]*schema.Schema
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		schemas: make(map[string]*schema.Schema),
	}
}

// Register adds s. Registering a name twice is a programming error and
// panics.
func (r *Registry) Register(s *schema.Schema) {
	if _, exists := r.schemas[s.Name()]; exists {
		panic(fmt.Sprintf("schema with name '%s' already registered", s.Name()))
	}
	r.schemas[s.Name()] = s
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*schema.Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Schemas returns every registered schema sorted by name.
func (r *Registry) Schemas() []*schema.Schema {
	out := make([]*schema.Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *schema.Schema) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}
