// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package schema declares which parameters a component accepts.
//
// A Schema binds names to param descriptors in declaration order. It is the
// resolver a params.Set validates through, and it owns the steps that turn
// a bag of raw values into a complete set: population, default filling and
// the mandatory check.
//
// Schemas compose. Derive builds a schema from one or more bases, the way a
// test recipe picks up parameters from its mixins; inherited parameters keep
// their base order and can be redeclared, which replaces them in place.
package schema
