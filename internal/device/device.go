// Package device defines the capability that device-typed parameters are
// checked against. Concrete devices live in the device-management layer that
// applies configuration to real hosts; this package only names what such a
// device must offer so the param package can depend on it without importing
// that layer.
package device

import (
	"errors"
	"fmt"
	"strings"
)

// Device is a live handle to a network device owned by the device-management
// layer. A handle always knows how to refer to itself, which is the form it
// takes when it crosses an execution boundary.
type Device interface {
	Ref() Ref
}

// Ref identifies a device on a host without holding it open.
type Ref struct {
	Host string
	Name string
}

// NewRef returns a reference to device name on host.
func NewRef(host, name string) Ref {
	return Ref{Host: host, Name: name}
}

// Ref makes a reference usable wherever a Device is expected to describe
// itself.
func (r Ref) Ref() Ref {
	return r
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool {
	return r.Host == "" && r.Name == ""
}

// Valid reports whether r names a device and survives a String/ParseRef
// round trip.
func (r Ref) Valid() bool {
	return r.Name != "" && !strings.Contains(r.Host, "/") && !strings.Contains(r.Name, "/")
}

// String returns the canonical "host/name" form. A reference without a host
// is rendered as the bare device name.
func (r Ref) String() string {
	if r.Host == "" {
		return r.Name
	}
	return r.Host + "/" + r.Name
}

var errEmptyRef = errors.New("device reference must not be empty")

// ParseRef parses the form produced by Ref.String.
func ParseRef(s string) (Ref, error) {
	if s == "" {
		return Ref{}, errEmptyRef
	}

	host, name, found := strings.Cut(s, "/")
	if !found {
		return Ref{Name: s}, nil
	}
	if host == "" || name == "" || strings.Contains(name, "/") {
		return Ref{}, fmt.Errorf("malformed device reference %q: want \"host/name\"", s)
	}
	return Ref{Host: host, Name: name}, nil
}
