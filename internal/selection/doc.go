// Package selection exposes the eligible factor columns of an equity table
// and obtains a validated (factor, bin count) pair from a Selector, either
// supplied programmatically or prompted for on a terminal.
package selection
