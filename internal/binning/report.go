package binning

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"equitybins/internal/dataprocessing"
)

// EdgeTimeLayout renders bin edges of date factors
const EdgeTimeLayout = "2006-01-02 15:04:05"

// Label renders the interval of b, e.g. "[10, 25]" or "(25, 40]"
func Label(b Bin, kind dataprocessing.FactorKind) string {
	open := "("
	if b.LowerClosed {
		open = "["
	}
	return fmt.Sprintf("%s%s, %s]", open, formatEdge(b.Lower, kind), formatEdge(b.Upper, kind))
}

func formatEdge(v float64, kind dataprocessing.FactorKind) string {
	if kind == dataprocessing.KindDate {
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(EdgeTimeLayout)
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}

// ToTable builds the per-bin aggregate table
func (a *Aggregates) ToTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Returns by %s (%d bins)", a.Factor, len(a.Bins)))
	t.AppendHeader(table.Row{"Bin", "Sum", "Count", "Mean"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, b := range a.Bins {
		mean := "NaN"
		if !math.IsNaN(b.Mean) {
			mean = strconv.FormatFloat(b.Mean, 'f', 6, 64)
		}
		t.AppendRow(table.Row{
			Label(b, a.Kind),
			strconv.FormatFloat(b.Sum, 'f', 6, 64),
			b.Count,
			mean,
		})
	}
	t.AppendFooter(table.Row{"Total", "", a.Rows, ""})
	return t
}

// RenderBins writes the per-bin aggregate table to w
func RenderBins(w io.Writer, a *Aggregates) error {
	_, err := fmt.Fprintln(w, a.ToTable().Render())
	return err
}

// FormatResult renders the weighted average with six decimals. Non-negative
// values get a leading blank so they line up with negative ones.
func FormatResult(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
	s := decimal.NewFromFloat(v).StringFixed(6)
	if !strings.HasPrefix(s, "-") {
		s = " " + s
	}
	return s
}

// RenderResult writes the final weighted average line to w
func RenderResult(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w, "\n Weighted Average Return : %s\n", FormatResult(r.Value))
	return err
}
