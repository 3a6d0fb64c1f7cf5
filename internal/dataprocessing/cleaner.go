package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"

	apperrors "equitybins/internal/errors"
)

// CleanTable is the two-column table {Returns, factor} after dropping
// incomplete rows and coercing both columns. Row order is preserved.
type CleanTable struct {
	Factor  FactorColumn
	Returns []float64
	// Rows maps each kept row to its 1-based data row in the source table
	Rows    []int
	Dropped int
}

// Len returns the number of cleaned rows
func (c *CleanTable) Len() int {
	return len(c.Returns)
}

// Cleaner drops incomplete rows and types the factor column
type Cleaner struct {
	normalizer Normalizer
	logger     *slog.Logger
}

// NewCleaner creates a cleaner using n for factor coercion
func NewCleaner(n Normalizer, logger *slog.Logger) *Cleaner {
	if n == nil {
		n = NewFirstValueNormalizer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		normalizer: n,
		logger:     logger.With(slog.String("component", "cleaner")),
	}
}

// Clean restricts t to {Returns, factor}, drops rows missing either value
// and coerces the survivors.
func (c *Cleaner) Clean(t *Table, factor string) (*CleanTable, error) {
	if !t.HasColumn(factor) {
		return nil, apperrors.NewInvalidSelectionError(fmt.Sprintf("factor column %q not in table", factor)).
			WithContext("factor", factor)
	}

	sub := t.DataFrame().Select([]string{ReturnsColumn, factor})
	if sub.Err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("select %q and %q", ReturnsColumn, factor), sub.Err)
	}

	retCol := sub.Col(ReturnsColumn)
	facCol := sub.Col(factor)
	retText, retNaN := retCol.Records(), retCol.IsNaN()
	facText, facNaN := facCol.Records(), facCol.IsNaN()

	ct := &CleanTable{}
	rawFactor := make([]string, 0, len(facText))
	for i := range retText {
		if retNaN[i] || facNaN[i] {
			ct.Dropped++
			continue
		}
		row := i + 1
		ret, err := ParseNumber(retText[i])
		if err != nil {
			return nil, apperrors.NewTypeCoercionError(ReturnsColumn, row, retText[i], err)
		}
		ct.Returns = append(ct.Returns, ret)
		ct.Rows = append(ct.Rows, row)
		rawFactor = append(rawFactor, facText[i])
	}

	col, err := c.normalizer.Normalize(factor, rawFactor)
	if err != nil {
		return nil, relabelRow(err, factor, ct.Rows)
	}
	ct.Factor = col

	c.logger.Info("Factor data cleaned",
		slog.String("factor", factor),
		slog.String("kind", col.Kind.String()),
		slog.Int("rows_kept", ct.Len()),
		slog.Int("rows_dropped", ct.Dropped))

	return ct, nil
}

// relabelRow rewrites a normalizer error so it names the source table row
// instead of the position among cleaned values.
func relabelRow(err error, column string, rows []int) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrTypeTypeCoercion {
		return err
	}
	idx, ok := appErr.Context["index"].(int)
	if !ok || idx < 0 || idx >= len(rows) {
		return err
	}
	value, _ := appErr.Context["value"].(string)
	return apperrors.NewTypeCoercionError(column, rows[idx], value, appErr.Cause)
}
