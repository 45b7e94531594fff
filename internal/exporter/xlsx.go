package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salescli/pkg/contracts/domain"
)

// ReportSheet is the workbook sheet holding the report
const ReportSheet = "departments"

// ratioNumFmt is Excel's built-in "0.00" format
const ratioNumFmt = 2

// XLSXWriter provides Excel export of the department report
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteReport writes rows into the departments sheet of the workbook at path
func (w *XLSXWriter) WriteReport(ctx context.Context, path string, rows []domain.ReportRow, opts WriteOptions) error {
	mode := opts.Mode
	if mode == "" {
		mode = domain.WriteModeOverwrite
	}

	w.logger.InfoContext(ctx, "Writing XLSX report",
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

	var f *excelize.File
	if mode == domain.WriteModeAppend && hasData {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return fmt.Errorf("failed to open workbook: %w", err)
		}
	} else {
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}
	defer f.Close()

	next, err := nextReportRow(f)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: ratioNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create ratio style: %w", err)
	}
	if err := f.SetColStyle(ReportSheet, "D", style); err != nil {
		return fmt.Errorf("failed to style ratio column: %w", err)
	}

	if next == 1 {
		header := make([]interface{}, len(domain.ReportHeader))
		for i, h := range domain.ReportHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		next = 2
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return err
		}
		values := []interface{}{row.DepartmentID, row.TotalOrders, row.TotalFirstOrders, row.Ratio}
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// nextReportRow returns the 1-based row after the last used row of the
// report sheet, creating the sheet when an appended workbook lacks it.
func nextReportRow(f *excelize.File) (int, error) {
	idx, err := f.GetSheetIndex(ReportSheet)
	if err != nil {
		return 0, fmt.Errorf("failed to look up sheet: %w", err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(ReportSheet); err != nil {
			return 0, fmt.Errorf("failed to create sheet: %w", err)
		}
		return 1, nil
	}

	rows, err := f.GetRows(ReportSheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet: %w", err)
	}
	return len(rows) + 1, nil
}
