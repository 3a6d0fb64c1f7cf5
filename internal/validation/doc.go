// Package validation performs pre-flight checks on the input location so
// that a bad path fails with a clear data source error before parsing.
package validation
