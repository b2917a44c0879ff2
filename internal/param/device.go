// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package param

import (
	"net/netip"
	"reflect"

	"github.com/specialistvlad/paramkit/internal/device"
)

// DeviceParam accepts live device handles and device references. Anything
// else, including a device name as text, is rejected: turning text into a
// device is the device-management layer's job. Nil handles and references
// without a usable name are rejected too.
type DeviceParam struct{ base }

// Device returns a device descriptor.
func Device(opts ...Option) (*DeviceParam, error) {
	p := &DeviceParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *DeviceParam) Kind() Kind     { return KindDevice }
func (p *DeviceParam) String() string { return string(KindDevice) }

func (p *DeviceParam) Validate(raw any) (any, error) {
	if d, ok := usableDevice(raw); ok {
		return d, nil
	}
	return nil, invalid(KindDevice, raw, "value must be a device or device reference")
}

// DeviceOrIPParam accepts what DeviceParam accepts plus netip.Addr values.
type DeviceOrIPParam struct{ base }

// DeviceOrIP returns a descriptor accepting a device, a device reference or
// an address.
func DeviceOrIP(opts ...Option) (*DeviceOrIPParam, error) {
	p := &DeviceOrIPParam{}
	if err := p.init(p.Validate, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *DeviceOrIPParam) Kind() Kind     { return KindDeviceOrIP }
func (p *DeviceOrIPParam) String() string { return string(KindDeviceOrIP) }

func (p *DeviceOrIPParam) Validate(raw any) (any, error) {
	if d, ok := usableDevice(raw); ok {
		return d, nil
	}
	if v, ok := raw.(netip.Addr); ok && v.IsValid() {
		return v, nil
	}
	return nil, invalid(KindDeviceOrIP, raw, "value must be a device, device reference or IP address value")
}

func usableDevice(raw any) (device.Device, bool) {
	d, ok := raw.(device.Device)
	if !ok {
		return nil, false
	}
	switch rv := reflect.ValueOf(d); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return d, d.Ref().Valid()
}
