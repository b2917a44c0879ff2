// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package param provides type descriptors for configuration parameters.
//
// A descriptor is a reusable rule that checks, and where it makes sense
// coerces, one raw value. Descriptors are declared once, when a schema is
// authored, and are immutable afterwards.
//
// # Defaults are validated eagerly
//
// A default passed with the Default option is run through the descriptor's
// own validation inside the constructor. A bad default therefore fails while
// the schema is being written, not the first time somebody reads it, and the
// stored default is always the coerced value rather than what the author
// typed:
//
//	retries, err := param.Int(param.Default("3")) // stored default is int(3)
//	_, err = param.Int(param.Default("three"))   // err != nil
//
// Package level declarations usually go through Must:
//
//	var netIPv4 = param.Must(param.IPv4Network(param.Default("192.168.101.0/24")))
//
// # Composition
//
// Combinators hold the descriptors they delegate to. HostnameOrIPParam tries
// an IPParam and then a HostnameParam, ListParam validates each element
// through its element descriptor and ChoiceParam normalizes through its
// element descriptor before checking membership.
//
// Validation never logs and never has side effects. Every failure is a
// *ValidationError.
package param
