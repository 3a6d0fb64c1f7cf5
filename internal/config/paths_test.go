package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	wd := filepath.FromSlash("/work")
	abs := filepath.FromSlash("/srv/equity")

	tests := []struct {
		name      string
		data      DataConfig
		wantDir   string
		wantInput string
	}{
		{
			name:      "defaults under working directory",
			data:      DataConfig{Dir: "data", FileName: "equity_data.csv"},
			wantDir:   filepath.Join(wd, "data"),
			wantInput: filepath.Join(wd, "data", "equity_data.csv"),
		},
		{
			name:      "absolute data dir",
			data:      DataConfig{Dir: abs, FileName: "q1.csv"},
			wantDir:   abs,
			wantInput: filepath.Join(abs, "q1.csv"),
		},
		{
			name:      "absolute file wins",
			data:      DataConfig{Dir: "data", FileName: filepath.Join(abs, "q2.xlsx")},
			wantDir:   filepath.Join(wd, "data"),
			wantInput: filepath.Join(abs, "q2.xlsx"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolvePaths(wd, tt.data)
			assert.Equal(t, wd, p.WorkingDir)
			assert.Equal(t, tt.wantDir, p.DataDir)
			assert.Equal(t, tt.wantInput, p.InputFile)
		})
	}
}

func TestGetPaths(t *testing.T) {
	chdir(t)
	// temp dirs may resolve through symlinks, so compare against Getwd
	wd, err := os.Getwd()
	require.NoError(t, err)

	p, err := GetPaths(Default().Data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "data", "equity_data.csv"), p.InputFile)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
}
