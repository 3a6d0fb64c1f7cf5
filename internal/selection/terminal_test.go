package selection

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equitybins/internal/errors"
)

func TestTerminalSelector(t *testing.T) {
	opts := Options{Factors: []string{"Mkt Cap", "P/E", "Date"}, DefaultFactor: "Mkt Cap", DefaultBins: 5}

	tests := []struct {
		name     string
		input    string
		expected Selection
	}{
		{name: "defaults", input: "\n\n", expected: Selection{Factor: "Mkt Cap", Bins: 5}},
		{name: "by name", input: "P/E\n3\n", expected: Selection{Factor: "P/E", Bins: 3}},
		{name: "by number", input: "3\n10\n", expected: Selection{Factor: "Date", Bins: 10}},
		{name: "out of range number is a name", input: "9\n2\n", expected: Selection{Factor: "9", Bins: 2}},
		{name: "no trailing newline", input: "Date\n4", expected: Selection{Factor: "Date", Bins: 4}},
		{name: "eof takes defaults", input: "", expected: Selection{Factor: "Mkt Cap", Bins: 5}},
		{name: "whitespace trimmed", input: "  P/E  \n 7 \n", expected: Selection{Factor: "P/E", Bins: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			sel, err := NewTerminalSelector(strings.NewReader(tt.input), &out).Select(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel)
		})
	}
}

func TestTerminalSelector_Prompt(t *testing.T) {
	opts := Options{Factors: []string{"Mkt Cap", "Date"}, DefaultFactor: "Mkt Cap", DefaultBins: 5}

	var out bytes.Buffer
	_, err := NewTerminalSelector(strings.NewReader("\n\n"), &out).Select(context.Background(), opts)
	require.NoError(t, err)

	prompt := out.String()
	assert.Contains(t, prompt, " 1. Mkt Cap (default)")
	assert.Contains(t, prompt, " 2. Date")
	assert.Contains(t, prompt, "Please enter the number of bins. Default is 5.")
}

func TestTerminalSelector_BadBins(t *testing.T) {
	opts := Options{Factors: []string{"Mkt Cap"}, DefaultFactor: "Mkt Cap", DefaultBins: 5}

	var out bytes.Buffer
	_, err := NewTerminalSelector(strings.NewReader("\nfive\n"), &out).Select(context.Background(), opts)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSelection)
}

func TestTerminalSelector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := NewTerminalSelector(strings.NewReader("\n\n"), &out).Select(ctx, Options{DefaultFactor: "Mkt Cap", DefaultBins: 5})
	assert.ErrorIs(t, err, context.Canceled)
}
