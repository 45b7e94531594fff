package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"salescli/pkg/contracts/domain"
)

// ErrOutputExists is returned in fail mode when the destination already exists
var ErrOutputExists = errors.New("output file already exists")

// WriteOptions configures how a report is written
type WriteOptions struct {
	Mode      domain.WriteMode
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility (csv only)
}

// ReportWriter writes report rows to a file
type ReportWriter interface {
	WriteReport(ctx context.Context, path string, rows []domain.ReportRow, opts WriteOptions) error
}

// NewReportWriter returns the writer for format
func NewReportWriter(format domain.ReportFormat, logger *slog.Logger) (ReportWriter, error) {
	switch format {
	case domain.ReportFormatCSV, "":
		return NewCSVWriter(logger), nil
	case domain.ReportFormatXLSX:
		return NewXLSXWriter(logger), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// checkDestination applies fail mode and reports whether the destination
// already holds data.
func checkDestination(path string, mode domain.WriteMode) (hasData bool, err error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to stat output: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("output path %s is a directory", path)
	}

	if mode == domain.WriteModeFail {
		return true, fmt.Errorf("%s: %w", path, ErrOutputExists)
	}
	return info.Size() > 0, nil
}
