package params

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/paramkit/internal/device"
	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver is a minimal Resolver backed by a map.
type fakeResolver struct {
	name  string
	decls map[string]param.Descriptor
}

func (r *fakeResolver) Name() string { return r.name }

func (r *fakeResolver) Lookup(name string) (param.Descriptor, bool) {
	d, ok := r.decls[name]
	return d, ok
}

type liveDevice struct{ name string }

func (d *liveDevice) Ref() device.Ref { return device.NewRef("local", d.name) }

func newResolver() *fakeResolver {
	return &fakeResolver{
		name: "netperf",
		decls: map[string]param.Descriptor{
			"port":   param.Must(param.Int()),
			"host":   param.Must(param.HostnameOrIP()),
			"flows":  param.Must(param.List(param.Must(param.Int()))),
			"opts":   param.Must(param.Dict()),
			"dev":    param.Must(param.Device()),
			"net":    param.Must(param.IPv4Network()),
			"ratio":  param.Must(param.Float()),
			"perf":   param.Must(param.Choice(param.Must(param.Str()), []any{"tcp_rr", "udp_rr"})),
			"nested": param.Must(param.Any()),
		},
	}
}

func TestSetValidatesAndStores(t *testing.T) {
	t.Parallel()
	s := New(newResolver())

	require.NoError(t, s.Set("port", "12865"))
	require.NoError(t, s.Set("host", "192.0.2.5"))

	v, ok := s.Lookup("port")
	require.True(t, ok)
	require.Equal(t, 12865, v)
	require.Equal(t, netip.MustParseAddr("192.0.2.5"), s.Get("host", nil))
	require.Equal(t, "fallback", s.Get("ratio", "fallback"))
	require.True(t, s.Contains("port"))
	require.False(t, s.Contains("ratio"))
	require.Equal(t, 2, s.Len())
}

func TestSetUnknownName(t *testing.T) {
	t.Parallel()
	s := New(newResolver())

	err := s.Set("bogus", 1)
	var ne *NameError
	require.True(t, errors.As(err, &ne))
	require.Equal(t, "bogus", ne.Name)
	require.Equal(t, "netperf", ne.Owner)
	require.Zero(t, s.Len())

	unbound := New(nil)
	err = unbound.Set("port", 1)
	require.True(t, errors.As(err, &ne))
	require.Empty(t, ne.Owner)
	require.Contains(t, err.Error(), "not bound")
}

func TestSetFailureLeavesSetUnchanged(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	require.NoError(t, s.Set("port", 1))

	err := s.Set("port", "x")
	var ve *param.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "port", ve.Param)
	require.Equal(t, "x", ve.Value)

	require.Equal(t, 1, s.Get("port", nil))

	err = s.Set("flows", []any{"1", "x"})
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "flows", ve.Param)
	require.Equal(t, []int{1}, ve.Path)
	require.False(t, s.Contains("flows"))
}

func TestInsertionOrder(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	for _, name := range []string{"ratio", "port", "host"} {
		require.NoError(t, s.Set(name, map[string]any{"ratio": 0.5, "port": 1, "host": "h"}[name]))
	}
	require.NoError(t, s.Set("port", 2), "re-setting keeps the position")

	require.Equal(t, []string{"ratio", "port", "host"}, s.Names())

	var got []string
	for name := range s.All() {
		got = append(got, name)
	}
	require.Equal(t, s.Names(), got)

	// All is restartable and stops early on request.
	var first []string
	for name := range s.All() {
		first = append(first, name)
		break
	}
	require.Equal(t, []string{"ratio"}, first)

	var again int
	for range s.All() {
		again++
	}
	require.Equal(t, 3, again)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	require.NoError(t, s.Set("port", 1))
	require.NoError(t, s.Set("ratio", 1))
	require.NoError(t, s.Set("host", "h"))

	s.Delete("ratio")
	s.Delete("missing")

	require.Equal(t, []string{"port", "host"}, s.Names())
	require.False(t, s.Contains("ratio"))
}

func TestMappingRoundTrip(t *testing.T) {
	t.Parallel()
	dev := &liveDevice{name: "eth0"}
	s := New(newResolver())
	require.NoError(t, s.Set("flows", []string{"1", "2"}))
	require.NoError(t, s.Set("opts", map[string]any{"gro": "on", "rings": []any{1, 2}}))
	require.NoError(t, s.Set("dev", dev))
	require.NoError(t, s.Set("net", "10.0.0.0/8"))
	require.NoError(t, s.Set("perf", "udp_rr"))

	m := s.ToMapping()
	require.Equal(t, []string{"flows", "opts", "dev", "net", "perf"}, m.Names())

	restored := FromMapping(nil, m)
	require.Equal(t, s.Names(), restored.Names())
	for name, v := range s.All() {
		got, ok := restored.Lookup(name)
		require.True(t, ok, name)
		if diff := cmp.Diff(v, got, cmp.Comparer(func(a, b netip.Prefix) bool { return a == b }), cmp.AllowUnexported(liveDevice{})); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	d, ok := As[*liveDevice](restored, "dev")
	require.True(t, ok)
	assert.Same(t, dev, d, "live handles keep their identity")
}

func TestMappingMutationIsolation(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	require.NoError(t, s.Set("flows", []any{1, 2, 3}))
	require.NoError(t, s.Set("nested", map[string]any{"inner": []any{"a"}}))

	m := s.ToMapping()
	m[0].Value.([]any)[0] = 100
	nested, _ := m.Lookup("nested")
	nested.(map[string]any)["inner"].([]any)[0] = "changed"

	require.Equal(t, []any{1, 2, 3}, s.Get("flows", nil))
	require.Equal(t, map[string]any{"inner": []any{"a"}}, s.Get("nested", nil))

	m = s.ToMapping()
	restored := FromMapping(nil, m)
	m[0].Value.([]any)[1] = 200
	require.Equal(t, []any{1, 2, 3}, restored.Get("flows", nil))

	flows, _ := As[[]any](restored, "flows")
	flows[2] = 300
	require.Equal(t, []any{1, 2, 3}, s.Get("flows", nil))
}

type linkConfig struct {
	Ports []int
}

func TestMappingIsolatesStructValues(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	orig := linkConfig{Ports: []int{1}}
	require.NoError(t, s.Set("opts", map[string]any{"c": orig}))

	restored := FromMapping(nil, s.ToMapping())
	orig.Ports[0] = 99

	require.Equal(t, map[string]any{"c": linkConfig{Ports: []int{1}}}, restored.Get("opts", nil))
}

func TestLoadMappingSkipsValidation(t *testing.T) {
	t.Parallel()
	s := FromMapping(newResolver(), Mapping{{Name: "port", Value: "not an int"}})
	require.Equal(t, "not an int", s.Get("port", nil))

	require.NoError(t, s.Set("port", "5"), "a rebuilt set stays usable when bound")
	require.Equal(t, 5, s.Get("port", nil))
}

func TestAs(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	require.NoError(t, s.Set("port", 80))

	port, ok := As[int](s, "port")
	require.True(t, ok)
	require.Equal(t, 80, port)

	_, ok = As[string](s, "port")
	require.False(t, ok)

	_, ok = As[int](s, "missing")
	require.False(t, ok)
}

func TestString(t *testing.T) {
	t.Parallel()
	s := New(newResolver())
	require.NoError(t, s.Set("port", 80))
	require.NoError(t, s.Set("host", "10.0.0.1"))

	require.Equal(t, "port = 80\nhost = 10.0.0.1\n", s.String())
	require.Empty(t, New(nil).String())
}
