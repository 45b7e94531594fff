package exporter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export of the department report
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteReport writes the header and one line per row to path
func (w *CSVWriter) WriteReport(ctx context.Context, path string, rows []domain.ReportRow, opts WriteOptions) error {
	mode := opts.Mode
	if mode == "" {
		mode = domain.WriteModeOverwrite
	}

	w.logger.InfoContext(ctx, "Writing CSV report",
		slog.String("file_path", path),
		slog.String("mode", string(mode)),
		slog.Int("record_count", len(rows)))

	hasData, err := checkDestination(path, mode)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case domain.WriteModeAppend:
		flags |= os.O_APPEND
	case domain.WriteModeFail:
		flags |= os.O_EXCL
	default:
		flags |= os.O_TRUNC
		hasData = false
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if !hasData && opts.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if !hasData {
		if err := writer.Write(domain.ReportHeader); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	if err := writer.WriteAll(FormatReport(rows)); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	return file.Close()
}
