package manifest

import (
	"net/netip"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/paramkit/internal/device"
	"github.com/specialistvlad/paramkit/internal/param"
	"github.com/specialistvlad/paramkit/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeSource is a test helper that decodes schema blocks from a string.
func decodeSource(t *testing.T, src string) ([]*Definition, hcl.Diagnostics) {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "HCL parsing failed: %s", diags.Error())
	return DecodeSchemas(file.Body)
}

func mustBuild(t *testing.T, src string) *schema.Schema {
	t.Helper()
	defs, diags := decodeSource(t, src)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, defs, 1)
	s, err := defs[0].Build()
	require.NoError(t, err)
	return s
}

func TestDecodeSchemas_FullDeclaration(t *testing.T) {
	t.Parallel()
	src := `
schema "netperf" {
  description = "Netperf client settings"

  param "duration" {
    type        = int
    description = "Seconds per run"
    default     = 60
  }

  param "server" {
    type      = hostname_or_ip
    mandatory = true
  }

  param "mcast_group" {
    type      = ip
    family    = "ipv4"
    multicast = true
    default   = "239.1.1.1"
  }

  param "cpus" {
    type    = list(int)
    default = ["0", 1]
  }

  param "test" {
    type    = choice(string)
    choices = ["tcp_rr", "udp_rr", "tcp_stream"]
    default = "tcp_stream"
  }

  param "mode" {
    type  = const
    value = "ACTIVE"
  }

  param "net" {
    type    = ipv4_network
    default = "192.168.1.0/24"
  }

  param "dev" {
    type    = device
    default = "host1/eth0"
  }

  param "ratio" {
    type    = float
    default = 0.5
  }

  param "extra" {
    type    = dict
    default = { gro = "on" }
  }
}
`
	s := mustBuild(t, src)
	assert.Equal(t, "netperf", s.Name())
	assert.Equal(t, "Netperf client settings", s.Description())

	var names []string
	for name := range s.Fields() {
		names = append(names, name)
	}
	require.Equal(t, []string{"duration", "server", "mcast_group", "cpus", "test", "mode", "net", "dev", "ratio", "extra"}, names)

	f, _ := s.Field("duration")
	assert.Equal(t, "Seconds per run", f.Description)

	set, err := s.Instantiate(map[string]any{"server": "perf.example.com"})
	require.NoError(t, err)
	assert.Equal(t, 60, set.Get("duration", nil))
	assert.Equal(t, "perf.example.com", set.Get("server", nil))
	assert.Equal(t, netip.MustParseAddr("239.1.1.1"), set.Get("mcast_group", nil))
	assert.Equal(t, []any{0, 1}, set.Get("cpus", nil))
	assert.Equal(t, "tcp_stream", set.Get("test", nil))
	assert.Equal(t, "ACTIVE", set.Get("mode", nil))
	assert.Equal(t, netip.MustParsePrefix("192.168.1.0/24"), set.Get("net", nil))
	assert.Equal(t, device.NewRef("host1", "eth0"), set.Get("dev", nil))
	assert.Equal(t, 0.5, set.Get("ratio", nil))
	assert.Equal(t, map[string]any{"gro": "on"}, set.Get("extra", nil))

	d, _ := s.Lookup("mcast_group")
	assert.Equal(t, "ip(ipv4, multicast)", d.String())

	_, err = s.Instantiate(nil)
	var mm *schema.MissingMandatoryError
	require.ErrorAs(t, err, &mm)
	require.Equal(t, []string{"server"}, mm.Names)
}

func TestDecodeSchemas_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		src         string
		wantSummary string
		wantDetail  string
	}{
		{
			name: "missing type",
			src: `schema "s" {
  param "a" { default = 1 }
}`,
			wantSummary: "Missing 'type' attribute",
		},
		{
			name: "unsupported keyword",
			src: `schema "s" {
  param "a" { type = number }
}`,
			wantSummary: "Unsupported type",
			wantDetail:  "'number'",
		},
		{
			name: "type is not a keyword",
			src: `schema "s" {
  param "a" { type = "int" }
}`,
			wantSummary: "Invalid type specification",
		},
		{
			name: "constructor on scalar",
			src: `schema "s" {
  param "a" { type = int(string) }
}`,
			wantSummary: "Unsupported type",
		},
		{
			name: "constructor arity",
			src: `schema "s" {
  param "a" { type = list(int, string) }
}`,
			wantSummary: "Invalid type specification",
		},
		{
			name: "const element",
			src: `schema "s" {
  param "a" { type = list(const) }
}`,
			wantSummary: "Invalid element type",
		},
		{
			name: "duplicate param",
			src: `schema "s" {
  param "a" { type = int }
  param "a" { type = string }
}`,
			wantSummary: "Duplicate param definition",
		},
		{
			name: "duplicate schema",
			src: `schema "s" {}
schema "s" {}`,
			wantSummary: "Duplicate schema definition",
		},
		{
			name: "invalid default",
			src: `schema "s" {
  param "a" {
    type    = int
    default = "abc"
  }
}`,
			wantSummary: "Invalid default value",
			wantDetail:  "must be a valid integer",
		},
		{
			name: "network default out of range",
			src: `schema "s" {
  param "a" {
    type    = ipv4_network
    default = "192.168.1.0/33"
  }
}`,
			wantSummary: "Invalid default value",
		},
		{
			name: "choice without choices",
			src: `schema "s" {
  param "a" { type = choice(string) }
}`,
			wantSummary: "Invalid param declaration",
			wantDetail:  "choices",
		},
		{
			name: "choices not a list",
			src: `schema "s" {
  param "a" {
    type    = choice
    choices = "tcp_rr"
  }
}`,
			wantSummary: "Invalid choices",
		},
		{
			name: "const without value",
			src: `schema "s" {
  param "a" { type = const }
}`,
			wantSummary: "Invalid param declaration",
			wantDetail:  "'value'",
		},
		{
			name: "bad family",
			src: `schema "s" {
  param "a" {
    type   = ip
    family = "ipx"
  }
}`,
			wantSummary: "Invalid address family",
		},
		{
			name: "unknown attribute",
			src: `schema "s" {
  param "a" {
    type  = int
    color = "red"
  }
}`,
			wantSummary: "Unsupported argument",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			defs, diags := decodeSource(t, tc.src)
			require.True(t, diags.HasErrors(), "expected diagnostics")
			require.Nil(t, defs)
			require.Equal(t, tc.wantSummary, diags[0].Summary, diags.Error())
			if tc.wantDetail != "" {
				require.Contains(t, diags[0].Detail, tc.wantDetail)
			}
			require.NotNil(t, diags[0].Subject, "diagnostics point at the source")
		})
	}
}

func TestDecodeSchemas_Extends(t *testing.T) {
	t.Parallel()
	defs, diags := decodeSource(t, `
schema "perf_mixin" {
  param "perf_duration" {
    type    = int
    default = 60
  }
}

schema "ping" {
  extends = ["perf_mixin"]
  param "count" {
    type    = int
    default = 10
  }
  param "perf_duration" {
    type    = int
    default = 5
  }
}
`)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, defs, 2)
	require.Equal(t, []string{"perf_mixin"}, defs[1].Extends)

	base, err := defs[0].Build()
	require.NoError(t, err)
	ping, err := defs[1].Build(base)
	require.NoError(t, err)

	set, err := ping.Instantiate(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"perf_duration", "count"}, set.Names())
	require.Equal(t, 5, set.Get("perf_duration", nil))

	_, err = defs[1].Build()
	require.Error(t, err, "bases must match extends")
}

func TestParseTypeExpr(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"int", "list", "list(int)", "list(list(ip))", "choice(string)", "ipv6_network", "device_or_ip"} {
		expr, diags := hclsyntax.ParseExpression([]byte(src), "type.hcl", hcl.InitialPos)
		require.False(t, diags.HasErrors())

		te, diags := parseTypeExpr(expr)
		require.False(t, diags.HasErrors(), "%s: %s", src, diags.Error())
		require.Equal(t, src, te.String())
	}
}

func TestTypeExprDescriptorKinds(t *testing.T) {
	t.Parallel()
	cases := map[string]param.Kind{
		"any":            param.KindAny,
		"string":         param.KindString,
		"bool":           param.KindBool,
		"hostname":       param.KindHostname,
		"hostname_or_ip": param.KindHostnameOrIP,
		"device_or_ip":   param.KindDeviceOrIP,
		"ipv6_network":   param.KindNetwork,
		"list(ip)":       param.KindList,
	}
	for src, want := range cases {
		expr, _ := hclsyntax.ParseExpression([]byte(src), "type.hcl", hcl.InitialPos)
		te, diags := parseTypeExpr(expr)
		require.False(t, diags.HasErrors())
		d, err := te.descriptor(typeAttrs{})
		require.NoError(t, err)
		assert.Equal(t, want, d.Kind(), src)
	}
}
