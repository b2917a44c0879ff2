// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"
	"strings"
)

// MissingMandatoryError lists the mandatory parameters a set does not hold.
type MissingMandatoryError struct {
	Schema string
	Names  []string
}

func (e *MissingMandatoryError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	noun := "parameter"
	if len(e.Names) > 1 {
		noun = "parameters"
	}
	return fmt.Sprintf("schema %q: missing mandatory %s %s", e.Schema, noun, strings.Join(quoted, ", "))
}
