package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by one report run
type PipelineMetrics struct {
	rowsRead      metric.Int64Counter
	rowsSkipped   metric.Int64Counter
	records       metric.Int64Counter
	reportRows    metric.Int64Counter
	stageDuration metric.Float64Histogram
	heapAlloc     metric.Int64Gauge
}

// NewPipelineMetrics creates the report pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"deptreport_rows_read",
		metric.WithDescription("Data rows read from an input dataset"),
	)
	if err != nil {
		return nil, err
	}

	rowsSkipped, err := meter.Int64Counter(
		"deptreport_rows_skipped",
		metric.WithDescription("Data rows skipped because they could not be classified"),
	)
	if err != nil {
		return nil, err
	}

	records, err := meter.Int64Counter(
		"deptreport_records_aggregated",
		metric.WithDescription("Classified records folded into an aggregate table"),
	)
	if err != nil {
		return nil, err
	}

	reportRows, err := meter.Int64Counter(
		"deptreport_report_rows",
		metric.WithDescription("Department rows written to the report"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"deptreport_stage_duration_seconds",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"deptreport_heap_alloc_bytes",
		metric.WithDescription("Heap bytes in use after aggregation"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		rowsRead:      rowsRead,
		rowsSkipped:   rowsSkipped,
		records:       records,
		reportRows:    reportRows,
		stageDuration: stageDuration,
		heapAlloc:     heapAlloc,
	}, nil
}

// RecordDataset records the outcome of classifying one dataset
func (m *PipelineMetrics) RecordDataset(ctx context.Context, dataset, schema string, read, aggregated int, skippedByReason map[string]int) {
	ds := attribute.String("dataset", dataset)
	m.rowsRead.Add(ctx, int64(read), metric.WithAttributes(ds))
	m.records.Add(ctx, int64(aggregated), metric.WithAttributes(ds, attribute.String("schema", schema)))
	for reason, n := range skippedByReason {
		m.rowsSkipped.Add(ctx, int64(n), metric.WithAttributes(ds, attribute.String("reason", reason)))
	}
}

// RecordReport records how many department rows were emitted
func (m *PipelineMetrics) RecordReport(ctx context.Context, rows int) {
	m.reportRows.Add(ctx, int64(rows))
}

// RecordStage records the wall time of a pipeline stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordHeap samples the Go heap; the whole dataset is held in memory so this
// tracks the aggregate tables' footprint.
func (m *PipelineMetrics) RecordHeap(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.heapAlloc.Record(ctx, int64(memStats.HeapAlloc))
}
