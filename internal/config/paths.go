package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved input locations for a run
type Paths struct {
	WorkingDir string
	DataDir    string
	InputFile  string
}

// GetPaths resolves the data directory and input file against the
// current working directory. Absolute entries are used unchanged.
func GetPaths(data DataConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return resolvePaths(wd, data), nil
}

func resolvePaths(wd string, data DataConfig) *Paths {
	dataDir := data.Dir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(wd, dataDir)
	}

	input := data.FileName
	if !filepath.IsAbs(input) {
		input = filepath.Join(dataDir, input)
	}

	return &Paths{
		WorkingDir: wd,
		DataDir:    dataDir,
		InputFile:  input,
	}
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
