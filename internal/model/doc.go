// Package model defines the shared enumerations and error types for the
// wingplot CLI.
//
// This package contains plain value types with no external dependencies.
// Geometry lives in internal/geometry; the types here describe how that
// geometry is driven (transform operations, plot bounds modes) and how
// failures are reported to the operating system.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
