package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	apperrors "equitybins/internal/errors"
)

const (
	// ReturnsColumn holds the per-record return value
	ReturnsColumn = "Returns"

	// IdentityColumns is the number of leading columns (company name, date,
	// ticker, returns) that are never offered as factors
	IdentityColumns = 4
)

// MissingValues are the cell texts treated as absent. "N/A" is not one of
// them: it must surface as a coercion failure under numeric inference.
var MissingValues = []string{"", "NA", "NaN", "null"}

// Table is an equity table with every column held as text.
// Column order and names are fixed once loaded.
type Table struct {
	df dataframe.DataFrame
}

// Columns returns the header names in file order
func (t *Table) Columns() []string {
	return t.df.Names()
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return t.df.Nrow()
}

// DataFrame exposes the underlying frame
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(MissingValues),
	}
}

// LoadTable reads an equity table from path. Files ending in .xlsx are read
// from their first sheet; anything else is parsed as comma-delimited text.
func LoadTable(path string) (*Table, error) {
	logger := slog.Default().With(slog.String("component", "loader"))

	var (
		t   *Table
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		t, err = readXLSX(path)
	} else {
		t, err = readCSVFile(path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Equity table loaded",
		slog.String("path", path),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))
	return t, nil
}

func readCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("open %s", path), err).
			WithContext("path", path)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, withPath(err, path)
	}
	return t, nil
}

// ReadCSV parses comma-delimited text with a header row
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, apperrors.NewDataSourceError("not a delimited table with a header row", err)
	}
	return NewTable(records)
}

// NewTable builds a table from records whose first row is the header.
// Repeated header names are made unique as described at UniqueHeader.
func NewTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, apperrors.NewDataSourceError("no header row", nil)
	}
	header, renamed := UniqueHeader(records[0])
	if len(renamed) > 0 {
		slog.Default().Warn("Duplicate column names renamed",
			slog.String("component", "loader"),
			slog.Any("renamed", renamed))
	}
	rows := make([][]string, len(records))
	rows[0] = header
	copy(rows[1:], records[1:])
	return newTable(dataframe.LoadRecords(rows, loadOptions()...))
}

// UniqueHeader keeps the first occurrence of every name and renames later
// repeats to "name.1", "name.2", ... skipping names already taken.
// The returned map goes from each new name to the original.
func UniqueHeader(header []string) ([]string, map[string]string) {
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	renamed := make(map[string]string)
	for i, h := range header {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n + 1
		taken[name] = true
		renamed[name] = h
		out[i] = name
	}
	return out, renamed
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("open %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("%s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("read sheet %q of %s", sheets[0], path), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDataSourceError(fmt.Sprintf("sheet %q of %s is empty", sheets[0], path), nil)
	}

	// excelize drops trailing empty cells; pad every row to the header width
	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, apperrors.NewDataSourceError(
				fmt.Sprintf("sheet %q row %d has %d cells, header has %d", sheets[0], i+1, len(row), width), nil)
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	t, err := NewTable(rows)
	if err != nil {
		return nil, withPath(err, path)
	}
	return t, nil
}

// newTable checks the frame and the fixed schema
func newTable(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, apperrors.NewDataSourceError("not a delimited table with a header row", df.Err)
	}

	t := &Table{df: df}
	cols := t.Columns()
	if len(cols) < IdentityColumns {
		return nil, apperrors.NewDataSourceError(
			fmt.Sprintf("expected at least %d columns, found %d", IdentityColumns, len(cols)), nil)
	}
	if !t.HasColumn(ReturnsColumn) {
		return nil, apperrors.NewDataSourceError(
			fmt.Sprintf("missing %q column (header: %s)", ReturnsColumn, strings.Join(cols, ", ")), nil)
	}
	if t.Len() == 0 {
		return nil, apperrors.NewDataSourceError("table has a header but no data rows", nil)
	}
	return t, nil
}

func withPath(err error, path string) error {
	if appErr, ok := err.(*apperrors.AppError); ok {
		appErr.Message = fmt.Sprintf("%s: %s", path, appErr.Message)
		return appErr.WithContext("path", path)
	}
	return err
}
