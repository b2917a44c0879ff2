package transport

import (
	"bytes"
	"math"
	"net/netip"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/specialistvlad/paramkit/internal/device"
	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/specialistvlad/paramkit/internal/params"
	"github.com/specialistvlad/paramkit/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveDevice struct{ host, name string }

func (d *liveDevice) Ref() device.Ref { return device.NewRef(d.host, d.name) }

var addrComparer = cmp.Comparer(func(a, b netip.Addr) bool { return a == b })
var prefixComparer = cmp.Comparer(func(a, b netip.Prefix) bool { return a == b })

func fullSchema() *schema.Schema {
	return schema.New("everything").
		MustDeclare("any", param.Must(param.Any())).
		MustDeclare("int", param.Must(param.Int())).
		MustDeclare("float", param.Must(param.Float())).
		MustDeclare("whole_float", param.Must(param.Float())).
		MustDeclare("str", param.Must(param.Str())).
		MustDeclare("tricky_str", param.Must(param.List(param.Must(param.Str())))).
		MustDeclare("bool", param.Must(param.Bool())).
		MustDeclare("const", param.Must(param.Const("ACTIVE"))).
		MustDeclare("ip4", param.Must(param.IP(param.IPv4, false))).
		MustDeclare("ip6", param.Must(param.IP(param.IPv6, false))).
		MustDeclare("net", param.Must(param.IPv4Network())).
		MustDeclare("net6", param.Must(param.IPv6Network())).
		MustDeclare("hostname", param.Must(param.Hostname())).
		MustDeclare("host_or_ip", param.Must(param.HostnameOrIP())).
		MustDeclare("dev", param.Must(param.Device())).
		MustDeclare("dev_or_ip", param.Must(param.DeviceOrIP())).
		MustDeclare("dict", param.Must(param.Dict())).
		MustDeclare("list", param.Must(param.List(param.Must(param.Int())))).
		MustDeclare("choice", param.Must(param.Choice(param.Must(param.Float()), []any{0.5, 1})))
}

func fullSet(t *testing.T) *params.Set {
	t.Helper()
	set, err := fullSchema().Instantiate(map[string]any{
		"any":         nil,
		"int":         -42,
		"float":       0.25,
		"whole_float": 3,
		"str":         "plain",
		"tricky_str":  []any{"true", "1", "null", "", "2001-01-01", "a: b", "- x", "~"},
		"bool":        true,
		"ip4":         "192.0.2.5",
		"ip6":         "2001:db8::1",
		"net":         "10.0.0.0/8",
		"net6":        "fc00::/7",
		"hostname":    "perf.example.com",
		"host_or_ip":  "198.51.100.7",
		"dev":         device.NewRef("host1", "eth0"),
		"dev_or_ip":   netip.MustParseAddr("203.0.113.1"),
		"dict":        map[string]any{"z": 1, "a": []any{"x", 2.5}, "m": map[string]any{"k": nil}},
		"list":        []any{"1", 2},
		"choice":      "1",
	})
	require.NoError(t, err)
	return set
}

func TestRoundTripEveryKind(t *testing.T) {
	t.Parallel()
	set := fullSet(t)
	b := NewBundle("everything", set)

	data, err := Marshal(b)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err, string(data))
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "everything", got.Schema)

	if diff := cmp.Diff(b.Params, got.Params, addrComparer, prefixComparer); diff != "" {
		t.Errorf("params changed in transit (-want +got):\n%s\n%s", diff, data)
	}

	// Rebuilt values keep their Go types.
	restored := got.Set(fullSchema())
	whole, ok := params.As[float64](restored, "whole_float")
	require.True(t, ok)
	assert.Equal(t, 3.0, whole)
	choice, ok := params.As[float64](restored, "choice")
	require.True(t, ok)
	assert.Equal(t, 1.0, choice)
	_, ok = params.As[netip.Addr](restored, "ip6")
	assert.True(t, ok)
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()
	b := &Bundle{
		ID:     uuid.MustParse("a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f"),
		Schema: "netperf",
		Params: params.Mapping{
			{Name: "duration", Value: 60},
			{Name: "ratio", Value: 1.0},
			{Name: "server", Value: netip.MustParseAddr("192.0.2.5")},
			{Name: "net", Value: netip.MustParsePrefix("192.168.1.0/24")},
			{Name: "dev", Value: device.NewRef("host1", "eth0")},
			{Name: "opts", Value: map[string]any{"mtu": 9000, "gro": "enabled"}},
		},
	}

	data, err := Marshal(b)
	require.NoError(t, err)

	want := `format: 1
id: a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f
schema: netperf
params:
  duration: 60
  ratio: !!float 1
  server: !ip 192.0.2.5
  net: !net 192.168.1.0/24
  dev: !device host1/eth0
  opts:
    gro: enabled
    mtu: 9000
`
	require.Equal(t, want, string(data))
}

func TestLiveDeviceTravelsAsReference(t *testing.T) {
	t.Parallel()
	b := &Bundle{
		ID:     uuid.New(),
		Schema: "s",
		Params: params.Mapping{{Name: "dev", Value: &liveDevice{host: "h", name: "eth3"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, b))
	got, err := Decode(&buf)
	require.NoError(t, err)

	v, _ := got.Params.Lookup("dev")
	require.Equal(t, device.NewRef("h", "eth3"), v)
}

func TestUntypedValuesAreNormalized(t *testing.T) {
	t.Parallel()
	b := &Bundle{
		ID:     uuid.New(),
		Schema: "s",
		Params: params.Mapping{
			{Name: "strings", Value: []string{"a", "b"}},
			{Name: "i64", Value: int64(7)},
			{Name: "f32", Value: float32(0.5)},
			{Name: "counts", Value: map[string]int{"x": 1}},
			{Name: "inf", Value: math.Inf(1)},
		},
	}

	data, err := Marshal(b)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)

	want := params.Mapping{
		{Name: "strings", Value: []any{"a", "b"}},
		{Name: "i64", Value: 7},
		{Name: "f32", Value: 0.5},
		{Name: "counts", Value: map[string]any{"x": 1}},
		{Name: "inf", Value: math.Inf(1)},
	}
	require.Equal(t, want, got.Params)

	_, err = Marshal(&Bundle{Schema: "s", Params: params.Mapping{{Name: "ch", Value: make(chan int)}}})
	require.ErrorContains(t, err, `parameter "ch": unsupported value type chan int`)
}

func TestValidatedValuesRoundTrip(t *testing.T) {
	t.Parallel()
	type mtu uint16
	s := schema.New("edge").
		MustDeclare("opts", param.Must(param.Dict())).
		MustDeclare("raw", param.Must(param.List(nil))).
		MustDeclare("label", param.Must(param.Str())).
		MustDeclare("dev", param.Must(param.Device()))

	set, err := s.Instantiate(map[string]any{
		"opts":  map[string]any{"queues": []string{"rx", "tx"}, "mtu": mtu(9000)},
		"raw":   [][]int{{1, 2}},
		"label": []byte("ok"),
		"dev":   device.NewRef("", "eth0"),
	})
	require.NoError(t, err)

	b := NewBundle("edge", set)
	data, err := Marshal(b)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err, string(data))

	require.Equal(t, b.Params, got.Params, string(data))
}

func TestEncodeRejectsValuesThatCannotComeBack(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "zero reference", value: device.Ref{}, wantErr: "cannot be parsed back"},
		{name: "nameless reference", value: device.NewRef("h", ""), wantErr: "cannot be parsed back"},
		{name: "nil device", value: (*liveDevice)(nil), wantErr: "nil device"},
		{name: "invalid utf-8", value: "a\xffb", wantErr: "not valid UTF-8"},
		{name: "nested invalid utf-8", value: []any{[]byte{0xff}, "a\xff"}, wantErr: "element [1]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Marshal(&Bundle{Schema: "s", Params: params.Mapping{{Name: "v", Value: tc.value}}})
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDecodeDoesNotValidate(t *testing.T) {
	t.Parallel()
	got, err := Unmarshal([]byte(`format: 1
id: a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f
schema: everything
params:
  int: "not a number"
`))
	require.NoError(t, err)

	set := got.Set(fullSchema())
	require.Equal(t, "not a number", set.Get("int", nil))
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	header := "format: 1\nid: a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f\nschema: s\n"

	cases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty", doc: "", wantErr: "empty document"},
		{name: "not yaml", doc: "format: [", wantErr: "failed to decode bundle"},
		{name: "wrong format", doc: "format: 2\nschema: s\n", wantErr: "unsupported bundle format 2"},
		{name: "missing schema", doc: "format: 1\n", wantErr: "does not name a schema"},
		{name: "bad id", doc: "format: 1\nid: nope\nschema: s\n", wantErr: "failed to decode bundle"},
		{name: "params not mapping", doc: header + "params: [1]\n", wantErr: "params must be a mapping"},
		{name: "duplicate param", doc: header + "params:\n  a: 1\n  a: 2\n", wantErr: `parameter "a" appears twice`},
		{name: "bad ip", doc: header + "params:\n  a: !ip 300.1.1.1\n", wantErr: `parameter "a"`},
		{name: "bad net", doc: header + "params:\n  a: !net 10.0.0.0/40\n", wantErr: `parameter "a"`},
		{name: "bad device", doc: header + "params:\n  a: !device /eth0\n", wantErr: "malformed device reference"},
		{name: "unknown tag", doc: header + "params:\n  a: !mac 00:11:22:33:44:55\n", wantErr: "unsupported tag !mac"},
		{name: "bad nested value", doc: header + "params:\n  a: [1, !ip x]\n", wantErr: "element [1]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tc.doc))
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDecodeEmptyParams(t *testing.T) {
	t.Parallel()
	got, err := Unmarshal([]byte("format: 1\nid: a1b2c3d4-5d2f-4a57-9a0e-1f2b3c4d5e6f\nschema: s\n"))
	require.NoError(t, err)
	require.Empty(t, got.Params)

	data, err := Marshal(&Bundle{Schema: "s"})
	require.NoError(t, err)
	require.Contains(t, string(data), "params: {}")
}

func TestBundleIsIsolatedFromSet(t *testing.T) {
	t.Parallel()
	set := fullSet(t)
	b := NewBundle("everything", set)

	v, _ := b.Params.Lookup("list")
	v.([]any)[0] = 99
	require.Equal(t, []any{1, 2}, set.Get("list", nil))
	require.NotEqual(t, uuid.Nil, b.ID)
	require.NotEqual(t, b.ID, NewBundle("everything", set).ID)
}
