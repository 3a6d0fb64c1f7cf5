package binning

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equitybins/internal/dataprocessing"
)

func TestLabel(t *testing.T) {
	day := float64(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC).Unix())

	tests := []struct {
		name     string
		bin      Bin
		kind     dataprocessing.FactorKind
		expected string
	}{
		{name: "first", bin: Bin{Lower: 10, Upper: 25, LowerClosed: true}, kind: dataprocessing.KindNumeric, expected: "[10, 25]"},
		{name: "later", bin: Bin{Lower: 25, Upper: 40}, kind: dataprocessing.KindNumeric, expected: "(25, 40]"},
		{name: "date", bin: Bin{Lower: day, Upper: day + 3600}, kind: dataprocessing.KindDate, expected: "(2021-03-04 00:00:00, 2021-03-04 01:00:00]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Label(tt.bin, tt.kind))
		})
	}
}

func TestRenderBins(t *testing.T) {
	agg := &Aggregates{
		Factor: "Mkt Cap",
		Rows:   2,
		Bins: []Bin{
			{Lower: 10, Upper: 25, LowerClosed: true, Sum: 3, Count: 2, Mean: 1.5},
			{Lower: 25, Upper: 40, Mean: math.NaN()},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBins(&buf, agg))

	out := buf.String()
	assert.Contains(t, out, "Returns by Mkt Cap (2 bins)")
	assert.Contains(t, out, "[10, 25]")
	assert.Contains(t, out, "(25, 40]")
	assert.Contains(t, out, "1.500000")
	assert.Contains(t, out, "NaN")
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, Result{Value: 2.5}))
	assert.Equal(t, "\n Weighted Average Return :  2.500000\n", buf.String())
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{value: 0.0123456, expected: " 0.012346"},
		{value: 0, expected: " 0.000000"},
		{value: -1, expected: "-1.000000"},
		{value: 1e308, expected: " 1" + strings.Repeat("0", 308) + ".000000"},
		{value: math.Inf(1), expected: "+Inf"},
		{value: math.NaN(), expected: "NaN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatResult(tt.value), "value %v", tt.value)
	}
}
