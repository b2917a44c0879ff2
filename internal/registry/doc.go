// Package registry holds the named schemas an application instance knows.
//
// Schemas enter the registry two ways: Go code registers schemas it
// declares itself, and LoadSchemasRecursively reads HCL manifests from a
// directory tree. Manifest schemas may extend any schema known by the time
// loading finishes, including ones registered from code, so bases are
// resolved across files before anything is registered.
package registry
