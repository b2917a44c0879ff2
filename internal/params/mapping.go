// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package params

// Entry is one named value of a Mapping.
type Entry struct {
	Name  string
	Value any
}

// Mapping is the plain, ordered form of a Set that crosses execution
// boundaries.
type Mapping []Entry

// Lookup returns the value of the first entry called name.
func (m Mapping) Lookup(name string) (any, bool) {
	for _, e := range m {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Names returns the entry names in order.
func (m Mapping) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}
