// Package shared holds helpers used across the equitybins packages.
//
// The testutil subpackage provides a capturing slog handler for asserting
// on log output and fixtures that write small equity tables to disk.
package shared
