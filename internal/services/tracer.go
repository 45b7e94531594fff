package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salescli/internal/infrastructure"
)

// RunTracer provides OpenTelemetry instrumentation for report runs
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewRunTracer creates a run tracer on the given providers
func NewRunTracer(providers *infrastructure.OTelProviders) (*RunTracer, error) {
	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &RunTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// Metrics returns the pipeline instruments
func (rt *RunTracer) Metrics() *infrastructure.PipelineMetrics {
	return rt.metrics
}

// TraceRun creates the root span of a report run
func (rt *RunTracer) TraceRun(ctx context.Context, runID string, req RunRequest) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "deptreport.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.orders_path", req.OrdersPath),
			attribute.String("run.catalog_path", req.CatalogPath),
			attribute.String("run.output_path", req.OutputPath),
		),
	)
}

// TraceStage creates a span for one pipeline stage
func (rt *RunTracer) TraceStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, fmt.Sprintf("deptreport.stage.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("stage.name", stage)),
	)
}

// EndStage records the stage duration, marks the span and ends it.
// ctx must carry span.
func (rt *RunTracer) EndStage(ctx context.Context, span trace.Span, stage string, started time.Time, err error) {
	rt.metrics.RecordStage(ctx, stage, time.Since(started))
	if err != nil {
		infrastructure.RecordError(ctx, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRunCompletion annotates the root span with the run outcome
func (rt *RunTracer) RecordRunCompletion(span trace.Span, summary *RunSummary, err error) {
	if summary != nil {
		span.SetAttributes(
			attribute.Int("run.orders_rows", summary.OrdersRows),
			attribute.Int("run.catalog_rows", summary.CatalogRows),
			attribute.Int("run.skipped_rows", summary.SkippedRows),
			attribute.Int("run.report_rows", summary.ReportRows),
			attribute.Float64("run.duration_seconds", summary.Elapsed.Seconds()),
		)
		span.AddEvent("run.completed")
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "run completed successfully")
}
