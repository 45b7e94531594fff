package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/pkg/contracts/domain"
)

// FileValidator checks report inputs and outputs before a run touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateInputFile(path string) error {
	if path == "" {
		return apperrors.NewAppValidationError("input path is empty")
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError("input file").WithContext("path", path)
	}
	if errors.Is(err, os.ErrPermission) {
		v.logger.Error("Input file is not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewPermissionError("input file is not accessible").WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError("input path is a directory, not a file").WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewPermissionError("input file is not readable").WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputTarget ensures the report directory exists or can be created
// and, in fail mode, that no report is already there.
func (v *FileValidator) ValidateOutputTarget(path string, mode domain.WriteMode) error {
	if path == "" {
		return apperrors.NewAppValidationError("output path is empty")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewAppValidationError("output path is a directory, not a file").WithContext("path", path)
	case err == nil && mode == domain.WriteModeFail:
		v.logger.Error("Output file already exists",
			slog.String("file", path),
			slog.String("mode", string(mode)))
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "refusing to replace report in fail mode", exporter.ErrOutputExists).
			WithContext("path", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return apperrors.NewStorageError("failed to stat output file", err).WithContext("path", path)
	}

	if err := v.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and accepts new files.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("path", dir)
	}

	// Verify it's writable by creating a test file
	testFile, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewPermissionError(fmt.Sprintf("output directory is not writable: %v", err)).WithContext("path", dir)
	}
	name := testFile.Name()
	testFile.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
