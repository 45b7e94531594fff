package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"salescli/pkg/contracts/domain"
)

// ReportOptions configures the report builder
type ReportOptions struct {
	// IncludeEmpty keeps departments whose products were never ordered
	IncludeEmpty bool
}

// ReportBuilder joins the department and product tables into report rows
type ReportBuilder struct {
	logger *slog.Logger
	opts   ReportOptions
}

// NewReportBuilder creates a report builder
func NewReportBuilder(logger *slog.Logger, opts ReportOptions) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportBuilder{logger: logger, opts: opts}
}

// Build computes the report rows and logs how many departments were
// excluded for having no orders
func (b *ReportBuilder) Build(ctx context.Context, agg Aggregates) []domain.ReportRow {
	rows := BuildReport(agg, b.opts.IncludeEmpty)

	b.logger.DebugContext(ctx, "report built",
		slog.Int("departments", len(agg.Departments)),
		slog.Int("products", len(agg.Products)),
		slog.Int("rows", len(rows)),
		slog.Int("excluded_departments", len(agg.Departments)-len(rows)),
		slog.Bool("include_empty", b.opts.IncludeEmpty))

	return rows
}

// BuildReport sums the counters of each department's member products.
// Members with no counter contribute nothing. Rows are sorted by ascending
// department id; departments with no orders are dropped unless includeEmpty.
func BuildReport(agg Aggregates, includeEmpty bool) []domain.ReportRow {
	ids := make([]int64, 0, len(agg.Departments))
	for id := range agg.Departments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]domain.ReportRow, 0, len(ids))
	for _, id := range ids {
		var total, first int64
		for _, productID := range agg.Departments[id].MemberProducts {
			c, ok := agg.Products[productID]
			if !ok {
				continue
			}
			total += c.OrderCount
			first += c.FirstOrderCount
		}
		if total == 0 && !includeEmpty {
			continue
		}
		rows = append(rows, domain.ReportRow{
			DepartmentID:     id,
			TotalOrders:      total,
			TotalFirstOrders: first,
			Ratio:            domain.Ratio(first, total),
		})
	}
	return rows
}
