// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"fmt"

	"github.com/specialistvlad/paramkit/internal/deepcopy"
)

// Kind identifies which validation rule a descriptor applies.
type Kind string

const (
	KindAny          Kind = "any"
	KindInt          Kind = "int"
	KindFloat        Kind = "float"
	KindString       Kind = "string"
	KindBool         Kind = "bool"
	KindConst        Kind = "const"
	KindIP           Kind = "ip"
	KindNetwork      Kind = "network"
	KindHostname     Kind = "hostname"
	KindHostnameOrIP Kind = "hostname_or_ip"
	KindDevice       Kind = "device"
	KindDeviceOrIP   Kind = "device_or_ip"
	KindDict         Kind = "dict"
	KindList         Kind = "list"
	KindChoice       Kind = "choice"
)

// Descriptor validates raw values for one parameter.
type Descriptor interface {
	// Kind returns the validation rule tag.
	Kind() Kind

	// Validate checks raw and returns the value to store. The result is
	// accepted unchanged by a second call.
	Validate(raw any) (any, error)

	// Mandatory reports whether a value must be present once a parameter
	// set has been populated.
	Mandatory() bool

	// Default returns a copy of the validated default, if one was declared.
	Default() (any, bool)

	// String describes the type, e.g. "list(int)".
	String() string
}

// Option configures the attributes every descriptor shares.
type Option func(*options)

type options struct {
	mandatory  bool
	def        any
	hasDefault bool
}

// Mandatory marks the parameter as mandatory.
func Mandatory() Option {
	return func(o *options) {
		o.mandatory = true
	}
}

// Default sets the raw default. It is validated by the constructor.
func Default(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// Must panics if err is non-nil. It is meant for package level schema
// declarations, where a bad descriptor is a programming error.
func Must[T Descriptor](d T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("param: %v", err))
	}
	return d
}

// base carries the attributes shared by all descriptors.
type base struct {
	mandatory  bool
	def        any
	hasDefault bool
}

func (b *base) Mandatory() bool {
	return b.mandatory
}

func (b *base) Default() (any, bool) {
	if !b.hasDefault {
		return nil, false
	}
	return deepcopy.Copy(b.def), true
}

// init applies opts and validates the default through validate. It must be
// called after the variant specific fields are set, since validate reads
// them.
func (b *base) init(validate func(any) (any, error), opts []Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b.mandatory = o.mandatory
	if !o.hasDefault {
		return nil
	}

	v, err := validate(o.def)
	if err != nil {
		return fmt.Errorf("invalid default: %w", err)
	}
	b.def = v
	b.hasDefault = true
	return nil
}
