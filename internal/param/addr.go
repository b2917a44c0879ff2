// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"reflect"
	"regexp"
	"strings"
)

// Family is an IP address family constraint.
type Family int

const (
	// AnyFamily accepts both IPv4 and IPv6.
	AnyFamily Family = iota
	IPv4
	IPv6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "any"
	}
}

// ParseFamily parses the names produced by Family.String.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return AnyFamily, nil
	case "ipv4", "inet", "4":
		return IPv4, nil
	case "ipv6", "inet6", "6":
		return IPv6, nil
	default:
		return AnyFamily, fmt.Errorf("unknown address family %q", s)
	}
}

func (f Family) matches(addr netip.Addr) bool {
	switch f {
	case IPv4:
		return addr.Is4()
	case IPv6:
		return addr.Is6()
	default:
		return true
	}
}

// IPParam accepts a single IP address as text, netip.Addr or net.IP and
// stores it as a netip.Addr.
type IPParam struct {
	base
	family    Family
	multicast bool
}

// IP returns an address descriptor. A family other than AnyFamily restricts
// the accepted addresses; multicast requires a multicast address.
func IP(family Family, multicast bool, opts ...Option) (*IPParam, error) {
	p := &IPParam{family: family, multicast: multicast}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *IPParam) Kind() Kind { return KindIP }

func (p *IPParam) String() string {
	var quals []string
	if p.family != AnyFamily {
		quals = append(quals, p.family.String())
	}
	if p.multicast {
		quals = append(quals, "multicast")
	}
	if len(quals) == 0 {
		return string(KindIP)
	}
	return fmt.Sprintf("%s(%s)", KindIP, strings.Join(quals, ", "))
}

// Family returns the required address family.
func (p *IPParam) Family() Family { return p.family }

// Multicast reports whether only multicast addresses are accepted.
func (p *IPParam) Multicast() bool { return p.multicast }

func (p *IPParam) Validate(raw any) (any, error) {
	addr, ok := toAddr(raw)
	if !ok {
		return nil, invalid(KindIP, raw, "value must be an IP address string or address value")
	}
	if !p.family.matches(addr) {
		return nil, invalid(KindIP, raw, fmt.Sprintf("value must be of type %s", p.family))
	}
	if p.multicast && !addr.IsMulticast() {
		return nil, invalid(KindIP, raw, "value must be a multicast address")
	}
	return addr, nil
}

func toAddr(raw any) (netip.Addr, bool) {
	switch v := raw.(type) {
	case netip.Addr:
		return v, v.IsValid()
	case net.IP:
		if ip4 := v.To4(); ip4 != nil {
			return netip.AddrFrom4([4]byte(ip4)), true
		}
		return netip.AddrFromSlice(v)
	case string:
		addr, err := netip.ParseAddr(v)
		return addr, err == nil
	}

	if rv := reflect.ValueOf(raw); raw != nil && rv.Kind() == reflect.String {
		addr, err := netip.ParseAddr(rv.String())
		return addr, err == nil
	}
	return netip.Addr{}, false
}

// NetworkParam accepts a network, address plus prefix length, of one family
// and stores it as a netip.Prefix. Host bits must be zero.
type NetworkParam struct {
	base
	family Family
}

// Network returns a network descriptor for family, which must be IPv4 or
// IPv6.
func Network(family Family, opts ...Option) (*NetworkParam, error) {
	if family != IPv4 && family != IPv6 {
		return nil, fmt.Errorf("network parameter needs an ipv4 or ipv6 family, got %s", family)
	}
	p := &NetworkParam{family: family}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

// IPv4Network returns a network descriptor for IPv4.
func IPv4Network(opts ...Option) (*NetworkParam, error) {
	return Network(IPv4, opts...)
}

// IPv6Network returns a network descriptor for IPv6.
func IPv6Network(opts ...Option) (*NetworkParam, error) {
	return Network(IPv6, opts...)
}

func (p *NetworkParam) Kind() Kind     { return KindNetwork }
func (p *NetworkParam) String() string { return p.family.String() + "_network" }

// Family returns the network's address family.
func (p *NetworkParam) Family() Family { return p.family }

func (p *NetworkParam) Validate(raw any) (any, error) {
	var (
		prefix netip.Prefix
		err    error
	)
	switch v := raw.(type) {
	case netip.Prefix:
		prefix = v
		if !v.IsValid() {
			err = errors.New("invalid prefix")
		}
	case netip.Addr:
		prefix, err = v.Prefix(v.BitLen())
	case string:
		prefix, err = parseNetwork(v)
	default:
		if rv := reflect.ValueOf(raw); raw != nil && rv.Kind() == reflect.String {
			prefix, err = parseNetwork(rv.String())
		} else {
			return nil, invalid(KindNetwork, raw, "value must be a network string or prefix value")
		}
	}
	if err != nil {
		return nil, &ValidationError{Kind: KindNetwork, Value: raw, Reason: "value failed type check", Err: err}
	}

	if !p.family.matches(prefix.Addr()) {
		return nil, invalid(KindNetwork, raw, fmt.Sprintf("value must be an %s network", p.family))
	}
	if prefix.Masked() != prefix {
		return nil, invalid(KindNetwork, raw, "value has host bits set")
	}
	return prefix, nil
}

// parseNetwork accepts "addr/bits", "addr/netmask" for IPv4 and a bare
// address, which is read as a host network.
func parseNetwork(s string) (netip.Prefix, error) {
	addrPart, maskPart, found := strings.Cut(s, "/")
	if !found {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return addr.Prefix(addr.BitLen())
	}

	if strings.Contains(maskPart, ".") {
		addr, err := netip.ParseAddr(addrPart)
		if err != nil {
			return netip.Prefix{}, err
		}
		if !addr.Is4() {
			return netip.Prefix{}, fmt.Errorf("netmask %q given for non-IPv4 address %s", maskPart, addr)
		}
		bits, err := netmaskBits(maskPart)
		if err != nil {
			return netip.Prefix{}, err
		}
		return netip.PrefixFrom(addr, bits), nil
	}

	return netip.ParsePrefix(s)
}

// netmaskBits counts the leading ones of a dotted IPv4 netmask, rejecting
// non-contiguous masks.
func netmaskBits(s string) (int, error) {
	mask, err := netip.ParseAddr(s)
	if err != nil || !mask.Is4() {
		return 0, fmt.Errorf("invalid netmask %q", s)
	}

	b := mask.As4()
	ones, size := net.IPMask(b[:]).Size()
	if size == 0 {
		return 0, fmt.Errorf("netmask %q is not contiguous", s)
	}
	return ones, nil
}

var hostnameRe = regexp.MustCompile(`(?i)^([A-Z0-9]|[A-Z0-9][A-Z0-9\-]{0,61}[A-Z0-9])(\.([A-Z0-9]|[A-Z0-9][A-Z0-9\-]{0,61}[A-Z0-9]))*$`)

// HostnameParam accepts RFC 1123 host names.
type HostnameParam struct{ base }

// Hostname returns a host name descriptor.
func Hostname(opts ...Option) (*HostnameParam, error) {
	p := &HostnameParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *HostnameParam) Kind() Kind     { return KindHostname }
func (p *HostnameParam) String() string { return string(KindHostname) }

func (p *HostnameParam) Validate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		if rv := reflect.ValueOf(raw); raw != nil && rv.Kind() == reflect.String {
			s, ok = rv.String(), true
		}
	}
	if !ok || len(s) > 255 || !hostnameRe.MatchString(s) {
		return nil, invalid(KindHostname, raw, "value must be a valid hostname string")
	}
	return s, nil
}

// HostnameOrIPParam accepts an IP address or, failing that, a host name.
// The two interpretations are tried in that order and no family or
// multicast constraint applies.
type HostnameOrIPParam struct {
	base
	ip       *IPParam
	hostname *HostnameParam
}

// HostnameOrIP returns a descriptor accepting an address or a host name.
func HostnameOrIP(opts ...Option) (*HostnameOrIPParam, error) {
	p := &HostnameOrIPParam{
		ip:       &IPParam{},
		hostname: &HostnameParam{},
	}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *HostnameOrIPParam) Kind() Kind     { return KindHostnameOrIP }
func (p *HostnameOrIPParam) String() string { return string(KindHostnameOrIP) }

func (p *HostnameOrIPParam) Validate(raw any) (any, error) {
	v, ipErr := p.ip.Validate(raw)
	if ipErr == nil {
		return v, nil
	}
	v, hostErr := p.hostname.Validate(raw)
	if hostErr == nil {
		return v, nil
	}
	return nil, &ValidationError{
		Kind:   KindHostnameOrIP,
		Value:  raw,
		Reason: "value must be a valid hostname string, IP address string or address value",
		Err:    errors.Join(ipErr, hostErr),
	}
}
