// Package transport encodes parameter sets for the trip across an
// execution boundary.
//
// A Bundle carries the plain mapping form of a params.Set, the name of the
// schema it was validated against and a unique ID. It is written as YAML:
//
//	format: 1
//	id: a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f
//	schema: netperf
//	params:
//	  duration: 60
//	  ratio: !!float 1
//	  server: !ip 192.0.2.5
//	  net: !net 192.168.1.0/24
//	  dev: !device host1/eth0
//
// Parameters keep their order. Domain values use the local tags !ip, !net
// and !device; floats that look like integers carry !!float so they decode
// as floats. Dictionary keys are written sorted.
//
// Decoding trusts its input: values are rebuilt, not validated. Live device
// handles are written as their reference and come back as device.Ref.
package transport
