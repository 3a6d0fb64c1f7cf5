// Package binning partitions a cleaned factor column into equal-width bins,
// aggregates Returns per bin and reduces the per-bin means to a single
// count-weighted average.
package binning
