// Package manifest reads parameter schemas and parameter values from HCL.
//
// A schema file declares one or more schemas:
//
//	schema "netperf" {
//	  description = "Netperf client settings"
//	  extends     = ["perf_mixin"]
//
//	  param "perf_tool_cpu" {
//	    type    = list(int)
//	    default = []
//	  }
//
//	  param "perf_test" {
//	    type    = choice(string)
//	    choices = ["tcp_rr", "udp_rr", "tcp_stream"]
//	    default = "tcp_stream"
//	  }
//	}
//
// A values file holds plain attributes, one per parameter:
//
//	perf_test     = "tcp_rr"
//	perf_tool_cpu = [0, 1]
//
// Both are literal only: no variables or functions are available.
// Problems are reported as hcl.Diagnostics pointing at the offending source.
package manifest
