package exporter

import (
	"fmt"

	"salescli/pkg/contracts/domain"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// FormatReportRow renders a report row in header column order
func FormatReportRow(row domain.ReportRow) []string {
	return []string{
		formatInt(row.DepartmentID),
		formatInt(row.TotalOrders),
		formatInt(row.TotalFirstOrders),
		formatFloat(row.Ratio),
	}
}

// FormatReport renders all rows
func FormatReport(rows []domain.ReportRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = FormatReportRow(row)
	}
	return records
}
