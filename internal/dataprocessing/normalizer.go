package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "equitybins/internal/errors"
)

// DateLayout is the accepted date format (MM/DD/YYYY, leading zeros optional)
const DateLayout = "1/2/2006"

// FactorKind is the type inferred for a factor column
type FactorKind int

const (
	KindNumeric FactorKind = iota
	KindDate
)

// String returns the string representation of the kind
func (k FactorKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// FactorColumn is a typed factor column. Values holds the orderable
// representation used for binning; for dates that is Unix seconds (UTC).
type FactorColumn struct {
	Name   string
	Kind   FactorKind
	Values []float64
}

// Len returns the number of values
func (c FactorColumn) Len() int {
	return len(c.Values)
}

// Normalizer coerces textual factor values into a typed column
type Normalizer interface {
	Normalize(column string, values []string) (FactorColumn, error)
}

// FirstValueNormalizer decides the type of the whole column from its first
// value: a MM/DD/YYYY date makes it a date column, anything else numeric.
//
// Known limitation: a blank or atypical first value misclassifies the whole
// column. A stricter per-row validator can replace this behind Normalizer.
type FirstValueNormalizer struct{}

// NewFirstValueNormalizer creates the default normalizer
func NewFirstValueNormalizer() FirstValueNormalizer {
	return FirstValueNormalizer{}
}

// Normalize implements Normalizer. Errors are TYPE_COERCION errors whose
// "index" context is the offending position in values.
func (FirstValueNormalizer) Normalize(column string, values []string) (FactorColumn, error) {
	out := FactorColumn{Name: column, Kind: KindNumeric, Values: make([]float64, len(values))}
	if len(values) == 0 {
		return out, nil
	}

	if _, err := time.Parse(DateLayout, values[0]); err == nil {
		out.Kind = KindDate
		for i, v := range values {
			ts, err := time.Parse(DateLayout, v)
			if err != nil {
				return FactorColumn{}, coercionError(column, i, v, err)
			}
			out.Values[i] = float64(ts.Unix())
		}
		return out, nil
	}

	for i, v := range values {
		f, err := ParseNumber(v)
		if err != nil {
			return FactorColumn{}, coercionError(column, i, v, err)
		}
		out.Values[i] = f
	}
	return out, nil
}

// ParseNumber strips thousands separators and parses a decimal number,
// so "1,234.5" yields 1234.5. NaN and infinities are rejected.
func ParseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("empty number")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func coercionError(column string, index int, value string, cause error) error {
	return apperrors.NewTypeCoercionError(column, index+1, value, cause).
		WithContext("index", index)
}
