// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package params holds validated parameter values.
//
// A Set is an insertion-ordered bag of named values. Values enter through
// Set, which validates them with the descriptor its Resolver (usually a
// schema) returns for the name. A Set converts to a plain Mapping and back
// without losing order or type, which is how values cross an execution
// boundary: the sending side calls ToMapping, the receiving side calls
// FromMapping and trusts the values without validating them again.
//
// A Set is not safe for concurrent use. Goroutines that need the same
// values work on their own copies.
package params
