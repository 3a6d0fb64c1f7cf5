package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"

	"equitybins/internal/dataprocessing"
	apperrors "equitybins/internal/errors"
)

// DateFactor is always offered, whether or not it follows the identity columns
const DateFactor = "Date"

// Selection is the factor and bin count chosen for one run
type Selection struct {
	Factor string `validate:"required"`
	Bins   int    `validate:"gt=0"`
}

// Options is what a Selector is given to choose from
type Options struct {
	Factors       []string
	DefaultFactor string
	DefaultBins   int
}

// Selector obtains a Selection from the caller
type Selector interface {
	Select(ctx context.Context, opts Options) (Selection, error)
}

// EligibleFactors returns the columns after the identity columns, followed by
// DateFactor. DateFactor is listed once even when the table already has it
// among its candidate columns.
func EligibleFactors(columns []string) []string {
	eligible := make([]string, 0, len(columns))
	if len(columns) > dataprocessing.IdentityColumns {
		eligible = append(eligible, columns[dataprocessing.IdentityColumns:]...)
	}

	if slices.Contains(eligible, DateFactor) {
		slog.Warn("Date is already a candidate column, not offering it twice",
			slog.String("component", "selector"))
		return eligible
	}
	return append(eligible, DateFactor)
}

var validate = validator.New()

// Validate checks sel against the eligible factor set
func Validate(sel Selection, eligible []string) error {
	if err := validate.Struct(sel); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			switch fe.Field() {
			case "Bins":
				return apperrors.NewInvalidSelectionError(
					fmt.Sprintf("bin count must be a positive integer, got %d", sel.Bins)).
					WithContext("bins", sel.Bins)
			case "Factor":
				return apperrors.NewInvalidSelectionError("factor name is required")
			}
		}
		return apperrors.NewAppError(apperrors.ErrTypeInvalidSelection, "selection validation failed", err)
	}

	if !slices.Contains(eligible, sel.Factor) {
		return apperrors.NewInvalidSelectionError(
			fmt.Sprintf("factor %q is not one of the eligible factors %v", sel.Factor, eligible)).
			WithContext("factor", sel.Factor)
	}
	return nil
}

// StaticSelector returns a fixed selection. Zero fields fall back to the defaults.
type StaticSelector struct {
	Factor string
	Bins   int
}

// NewStaticSelector creates a selector for programmatic callers
func NewStaticSelector(factor string, bins int) *StaticSelector {
	return &StaticSelector{Factor: factor, Bins: bins}
}

// Select implements Selector
func (s *StaticSelector) Select(_ context.Context, opts Options) (Selection, error) {
	sel := Selection{Factor: s.Factor, Bins: s.Bins}
	if sel.Factor == "" {
		sel.Factor = opts.DefaultFactor
	}
	if sel.Bins == 0 {
		sel.Bins = opts.DefaultBins
	}
	return sel, nil
}
