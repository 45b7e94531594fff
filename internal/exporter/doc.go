// Package exporter writes the department report to disk.
//
// Two formats are supported:
//
// CSVWriter: comma-delimited text with the report header, optionally prefixed
// with a UTF-8 BOM for Excel.
//
// XLSXWriter: an Excel workbook with the report in the "departments" sheet.
//
// Both honour the same write modes. Overwrite truncates the destination,
// append adds rows after existing content (writing the header only into an
// empty destination) and fail refuses to touch an existing file.
//
// Example usage:
//
//	w, err := exporter.NewReportWriter(domain.ReportFormatCSV, logger)
//	if err != nil {
//		return err
//	}
//	err = w.WriteReport(ctx, "report.csv", rows, exporter.WriteOptions{
//		Mode: domain.WriteModeOverwrite,
//	})
package exporter
