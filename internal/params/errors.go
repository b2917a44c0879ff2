// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package params

import "fmt"

// NameError reports an attempt to set a parameter that has no descriptor.
type NameError struct {
	Name string

	// Owner is the name of the resolver that was asked. It is empty when
	// the set is not bound to one.
	Owner string
}

func (e *NameError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("parameter %q is not declared: set is not bound to a schema", e.Name)
	}
	return fmt.Sprintf("parameter %q is not declared by %q", e.Name, e.Owner)
}
