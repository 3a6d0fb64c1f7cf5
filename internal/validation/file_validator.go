package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "equitybins/internal/errors"
)

// FileValidator checks the input table before it is parsed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateDataDir checks that dir exists and is a directory
func (v *FileValidator) ValidateDataDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Data directory does not exist", slog.String("directory", dir))
		return apperrors.NewDataSourceError(fmt.Sprintf("data directory %s does not exist", dir), err).
			WithContext("path", dir)
	}
	if err != nil {
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to stat data directory %s", dir), err).
			WithContext("path", dir)
	}
	if !info.IsDir() {
		return apperrors.NewDataSourceError(fmt.Sprintf("%s is not a directory", dir), nil).
			WithContext("path", dir)
	}
	return nil
}

// ValidateInputFile checks that path is a readable, non-empty table file
// in a format the loader understands.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("file", path))
		return apperrors.NewDataSourceError(fmt.Sprintf("file %s does not exist", path), err).
			WithContext("path", path)
	}
	if err != nil {
		return apperrors.NewDataSourceError(fmt.Sprintf("failed to stat file %s", path), err).
			WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewDataSourceError(fmt.Sprintf("%s is a directory, not a file", path), nil).
			WithContext("path", path)
	}
	if info.Size() == 0 {
		return apperrors.NewDataSourceError(fmt.Sprintf("file %s is empty", path), nil).
			WithContext("path", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return apperrors.NewDataSourceError(fmt.Sprintf("file %s is a temporary Excel lock file", path), nil).
			WithContext("path", path)
	}
	// excelize reads only the OOXML format
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return apperrors.NewDataSourceError(fmt.Sprintf("file %s is a legacy .xls workbook, save it as .xlsx or .csv", path), nil).
			WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewDataSourceError(fmt.Sprintf("file %s is not readable", path), err).
			WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
