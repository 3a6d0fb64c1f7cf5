package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// EquityCSV is a four-row table whose Mkt Cap factor splits evenly into two
// bins with mean returns 1.5 and 3.5. P/E is constant.
const EquityCSV = `Company Name,Date,Ticker,Returns,Mkt Cap,P/E
Acme,01/31/2020,ACME,1.0,10,5
Beta,02/29/2020,BETA,2.0,20,5
Gamma,03/31/2020,GAMA,3.0,30,5
Delta,04/30/2020,DLTA,4.0,40,5
`

// DefaultInputName is the file name the pipeline looks for by default
const DefaultInputName = "equity_data.csv"

// WriteDataDir creates a temporary data directory holding content as the default input file
func WriteDataDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, DefaultInputName, content)
	return dir
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
