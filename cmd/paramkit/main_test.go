package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/paramkit/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A schema file with a syntax error makes loading the registry fail.
	invalidHCL := `
		schema "ping" {
			param "count" {
		// Missing closing braces here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "schemas.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"--schemas", filePath, "schemas"}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should fail when the schemas do not parse")
	require.Contains(t, runErr.Error(), "failed to load schemas")
	require.Contains(t, runErr.Error(), "failed to parse")
	require.Equal(t, cli.ExitCodeError, cli.ExitCode(runErr))
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when help is requested")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
	require.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
}

func TestRun_Check(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "ping.hcl")
	valuesFile := filepath.Join(dir, "values.hcl")
	require.NoError(t, os.WriteFile(schemaFile, []byte(`
schema "ping" {
  param "target" {
    type      = ip
    mandatory = true
  }
}
`), 0600))
	require.NoError(t, os.WriteFile(valuesFile, []byte(`target = "192.0.2.9"`), 0600))

	args := []string{"--schemas", schemaFile, "check", "ping", valuesFile}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "192.0.2.9")
}

func TestRun_ShippedSchemas(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--schemas", "../../schemas", "check", "lacp", "../../examples/lacp.hcl"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, out.String())
	require.Contains(t, out.String(), "PASSIVE")
	require.Contains(t, out.String(), "host1/eth2")
	require.Contains(t, out.String(), "192.168.101.0/24")
}
