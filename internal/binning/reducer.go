package binning

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	apperrors "equitybins/internal/errors"
)

// Result is the count-weighted average of the per-bin mean returns
type Result struct {
	Value    float64
	BinsUsed int
	Weight   int
}

// Reduce drops bins with a non-finite mean and averages the rest, weighting
// each mean by its bin's row count.
func Reduce(agg *Aggregates) (Result, error) {
	means := make([]float64, 0, len(agg.Bins))
	weights := make([]float64, 0, len(agg.Bins))
	total := 0

	for _, b := range agg.Bins {
		if math.IsNaN(b.Mean) || math.IsInf(b.Mean, 0) {
			continue
		}
		means = append(means, b.Mean)
		weights = append(weights, float64(b.Count))
		total += b.Count
	}

	if len(means) == 0 {
		return Result{}, apperrors.NewEmptyResultError("every bin is empty, nothing to average").
			WithContext("bins", len(agg.Bins))
	}
	if total == 0 {
		return Result{}, apperrors.NewEmptyResultError("total bin weight is zero")
	}

	res := Result{
		Value:    stat.Mean(means, weights),
		BinsUsed: len(means),
		Weight:   total,
	}
	if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
		return Result{}, apperrors.NewEmptyResultError("weighted average of the bin means overflows").
			WithContext("bins", len(agg.Bins))
	}

	slog.Default().Debug("Bins reduced",
		slog.String("component", "reducer"),
		slog.Int("bins_used", res.BinsUsed),
		slog.Int("bins_discarded", len(agg.Bins)-res.BinsUsed),
		slog.Float64("weighted_return", res.Value))

	return res, nil
}
