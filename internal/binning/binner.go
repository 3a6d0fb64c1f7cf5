package binning

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"equitybins/internal/dataprocessing"
	apperrors "equitybins/internal/errors"
)

// Bin is one equal-width interval over the factor with its return aggregate.
// Intervals are right-closed (Lower, Upper]; the first one also contains
// Lower so the bins together cover [min, max].
type Bin struct {
	Index       int
	Lower       float64
	Upper       float64
	LowerClosed bool
	Sum         float64
	Count       int
	// Mean is NaN for an empty bin
	Mean float64
}

// Contains reports whether v falls in the interval
func (b Bin) Contains(v float64) bool {
	if b.LowerClosed && v == b.Lower {
		return true
	}
	return v > b.Lower && v <= b.Upper
}

// Empty reports whether no rows were assigned
func (b Bin) Empty() bool {
	return b.Count == 0
}

// Aggregates is the ordered per-bin result for one factor
type Aggregates struct {
	Factor string
	Kind   dataprocessing.FactorKind
	Edges  []float64
	Bins   []Bin
	Rows   int
}

// EmptyBins counts bins without rows
func (a *Aggregates) EmptyBins() int {
	n := 0
	for _, b := range a.Bins {
		if b.Empty() {
			n++
		}
	}
	return n
}

// Binner partitions cleaned rows into equal-width factor bins
type Binner struct {
	logger *slog.Logger
}

// NewBinner creates a new binner
func NewBinner(logger *slog.Logger) *Binner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binner{logger: logger.With(slog.String("component", "binner"))}
}

// Aggregate splits [min, max] of the factor into n equal-width bins and
// sums, counts and averages Returns per bin.
func (b *Binner) Aggregate(ct *dataprocessing.CleanTable, n int) (*Aggregates, error) {
	if n <= 0 {
		return nil, apperrors.NewBinningError(fmt.Sprintf("bin count must be positive, got %d", n)).
			WithContext("bins", n)
	}

	values := ct.Factor.Values
	if len(values) != len(ct.Returns) {
		return nil, fmt.Errorf("factor has %d values but returns has %d", len(values), len(ct.Returns))
	}
	if len(values) == 0 {
		return nil, apperrors.NewBinningError(fmt.Sprintf("factor %q has no values after cleaning", ct.Factor.Name))
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return nil, apperrors.NewBinningError(
			fmt.Sprintf("factor %q has fewer than 2 distinct values", ct.Factor.Name)).
			WithContext("factor", ct.Factor.Name)
	}
	if math.IsInf(hi-lo, 0) {
		return nil, apperrors.NewBinningError(
			fmt.Sprintf("factor %q range [%g, %g] is too wide to split into equal bins", ct.Factor.Name, lo, hi)).
			WithContext("factor", ct.Factor.Name)
	}

	edges := Edges(lo, hi, n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{
			Index:       i,
			Lower:       edges[i],
			Upper:       edges[i+1],
			LowerClosed: i == 0,
		}
	}

	for i, v := range values {
		k := Locate(edges, v)
		bins[k].Sum += ct.Returns[i]
		bins[k].Count++
	}

	for i := range bins {
		if bins[i].Count == 0 {
			bins[i].Mean = math.NaN()
			continue
		}
		bins[i].Mean = bins[i].Sum / float64(bins[i].Count)
	}

	agg := &Aggregates{
		Factor: ct.Factor.Name,
		Kind:   ct.Factor.Kind,
		Edges:  edges,
		Bins:   bins,
		Rows:   len(values),
	}

	b.logger.Info("Factor binned",
		slog.String("factor", agg.Factor),
		slog.Int("bins", n),
		slog.Int("empty_bins", agg.EmptyBins()),
		slog.Float64("min", lo),
		slog.Float64("max", hi))

	return agg, nil
}

// Edges returns n+1 linearly spaced boundaries from lo to hi inclusive
func Edges(lo, hi float64, n int) []float64 {
	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	// ends must be exact: Locate relies on edges[n] == max
	edges[0], edges[n] = lo, hi
	return edges
}

// Locate returns the bin index of v for the given edges: the first bin whose
// upper edge is >= v. Values at or below edges[0] go to bin 0, values above
// the last edge to the last bin.
func Locate(edges []float64, v float64) int {
	n := len(edges) - 1
	k := sort.SearchFloat64s(edges[1:], v)
	if k >= n {
		k = n - 1
	}
	return k
}
