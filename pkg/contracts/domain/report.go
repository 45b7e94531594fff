package domain

import "fmt"

// ReportHeader is the column layout of the department report
var ReportHeader = []string{
	"department_id",
	"number_of_orders",
	"number_of_first_orders",
	"percentage",
}

// ReportRow is one department line of the report
type ReportRow struct {
	DepartmentID     int64   `json:"department_id"`
	TotalOrders      int64   `json:"number_of_orders"`
	TotalFirstOrders int64   `json:"number_of_first_orders"`
	Ratio            float64 `json:"percentage"`
}

// Ratio divides first orders by total orders, returning 0 when there are no orders.
func Ratio(firstOrders, totalOrders int64) float64 {
	if totalOrders <= 0 {
		return 0
	}
	return float64(firstOrders) / float64(totalOrders)
}

// WriteMode controls what happens when the report destination already exists
type WriteMode string

const (
	WriteModeOverwrite WriteMode = "overwrite"
	WriteModeAppend    WriteMode = "append"
	WriteModeFail      WriteMode = "fail"
)

// ParseWriteMode converts a configuration string into a WriteMode
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case WriteModeOverwrite, WriteModeAppend, WriteModeFail:
		return WriteMode(s), nil
	case "":
		return WriteModeOverwrite, nil
	default:
		return "", fmt.Errorf("unknown write mode %q (want overwrite, append or fail)", s)
	}
}

// ReportFormat defines the file format of the report
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// ParseReportFormat converts a configuration string into a ReportFormat
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case ReportFormatCSV, ReportFormatXLSX:
		return ReportFormat(s), nil
	case "":
		return ReportFormatCSV, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want csv or xlsx)", s)
	}
}
