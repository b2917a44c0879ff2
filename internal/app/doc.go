// Package app contains the core application logic. It defines the main App
// struct and its configuration, loads the schema registry, and implements
// the user-facing operations (listing schemas, checking values files,
// exporting and importing bundles) decoupled from any specific entrypoint
// like a CLI.
package app
