package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
	"salescli/internal/validation"
	"salescli/pkg/contracts/domain"
)

// Pipeline stages, used as span and metric labels
const (
	StageValidate  = "validate"
	StageOrders    = "orders"
	StageCatalog   = "catalog"
	StageAggregate = "aggregate"
	StageReport    = "report"
	StageExport    = "export"
)

// RunRequest names the files of one report run
type RunRequest struct {
	OrdersPath  string
	CatalogPath string
	OutputPath  string
}

// RunSummary describes a completed run
type RunSummary struct {
	RunID       string        `json:"run_id"`
	OrdersRows  int           `json:"orders_rows"`
	CatalogRows int           `json:"catalog_rows"`
	SkippedRows int           `json:"skipped_rows"`
	Products    int           `json:"products"`
	Departments int           `json:"departments"`
	ReportRows  int           `json:"report_rows"`
	OutputPath  string        `json:"output_path"`
	Elapsed     time.Duration `json:"elapsed"`
}

// ReportService runs the department report pipeline:
// validate, read and classify both datasets, aggregate, build and export.
type ReportService struct {
	cfg        *config.Config
	logger     *slog.Logger
	validator  *validation.FileValidator
	classifier *dataprocessing.Classifier
	builder    *dataprocessing.ReportBuilder
	writer     exporter.ReportWriter
	tracer     *RunTracer
	writeOpts  exporter.WriteOptions
}

// NewReportService creates a report service from configuration.
// A nil providers value runs without tracing or metrics.
func NewReportService(cfg *config.Config, providers *infrastructure.OTelProviders, logger *slog.Logger) (*ReportService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "report_service")

	extraction, err := dataprocessing.ParseExtractionMode(cfg.Input.Extraction)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid extraction mode", err)
	}
	mode, err := domain.ParseWriteMode(cfg.Report.WriteMode)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid write mode", err)
	}
	format, err := domain.ParseReportFormat(cfg.Report.Format)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid report format", err)
	}

	writer, err := exporter.NewReportWriter(format, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid report format", err)
	}

	if providers == nil {
		providers, err = infrastructure.InitializeOTel(&infrastructure.OTelConfig{
			ServiceName:    infrastructure.ServiceName,
			ServiceVersion: config.AppVersion,
			TraceExporter:  "none",
		}, logger)
		if err != nil {
			return nil, err
		}
	}
	tracer, err := NewRunTracer(providers)
	if err != nil {
		return nil, err
	}

	return &ReportService{
		cfg:        cfg,
		logger:     logger,
		validator:  validation.NewFileValidator(logger),
		classifier: dataprocessing.NewClassifier(logger, dataprocessing.ClassifierOptions{Extraction: extraction}),
		builder:    dataprocessing.NewReportBuilder(logger, dataprocessing.ReportOptions{IncludeEmpty: cfg.Report.IncludeEmpty}),
		writer:     writer,
		tracer:     tracer,
		writeOpts:  exporter.WriteOptions{Mode: mode, BOMPrefix: cfg.Report.BOMPrefix},
	}, nil
}

// Run produces the report for req. Malformed rows are skipped and counted
// unless strict input is configured.
func (s *ReportService) Run(ctx context.Context, req RunRequest) (summary *RunSummary, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	started := time.Now()

	ctx, span := s.tracer.TraceRun(ctx, runID, req)
	defer func() {
		s.tracer.RecordRunCompletion(span, summary, err)
		span.End()
	}()

	s.logger.InfoContext(ctx, "report run started",
		slog.String("orders", req.OrdersPath),
		slog.String("catalog", req.CatalogPath),
		slog.String("output", req.OutputPath),
		slog.String("write_mode", string(s.writeOpts.Mode)))

	if err := s.stage(ctx, StageValidate, func(ctx context.Context) error {
		return s.validate(req)
	}); err != nil {
		return nil, err
	}

	agg := dataprocessing.NewAggregator()
	result := &RunSummary{RunID: runID, OutputPath: req.OutputPath}

	var orders, catalog *dataprocessing.ClassifiedDataset
	if err := s.stage(ctx, StageOrders, func(ctx context.Context) (loadErr error) {
		orders, loadErr = s.loadDataset(ctx, req.OrdersPath, domain.SchemaOrderLines)
		return loadErr
	}); err != nil {
		return nil, err
	}
	if err := s.stage(ctx, StageCatalog, func(ctx context.Context) (loadErr error) {
		catalog, loadErr = s.loadDataset(ctx, req.CatalogPath, domain.SchemaProductCatalog)
		return loadErr
	}); err != nil {
		return nil, err
	}

	result.OrdersRows = orders.RowsRead
	result.CatalogRows = catalog.RowsRead
	result.SkippedRows = len(orders.RowErrors) + len(catalog.RowErrors)

	if s.cfg.Input.Strict && result.SkippedRows > 0 {
		first := orders.RowErrors
		if len(first) == 0 {
			first = catalog.RowErrors
		}
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%d malformed rows rejected in strict mode", result.SkippedRows), first[0])
	}

	if err := s.stage(ctx, StageAggregate, func(ctx context.Context) error {
		for _, ds := range []*dataprocessing.ClassifiedDataset{orders, catalog} {
			applied := agg.ApplyAll(ds.Records)
			s.tracer.Metrics().RecordDataset(ctx, ds.Name, ds.Kind.String(), ds.RowsRead, applied, ds.SkippedByReason())
		}
		s.tracer.Metrics().RecordHeap(ctx)
		return nil
	}); err != nil {
		return nil, err
	}
	result.Products = agg.ProductCount()
	result.Departments = agg.DepartmentCount()

	var rows []domain.ReportRow
	if err := s.stage(ctx, StageReport, func(ctx context.Context) error {
		rows = s.builder.Build(ctx, agg.Aggregates())
		s.tracer.Metrics().RecordReport(ctx, len(rows))
		return nil
	}); err != nil {
		return nil, err
	}
	result.ReportRows = len(rows)

	if err := s.stage(ctx, StageExport, func(ctx context.Context) error {
		return s.export(ctx, req.OutputPath, rows)
	}); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(started)
	s.logger.InfoContext(ctx, "report run completed",
		slog.Int("orders_rows", result.OrdersRows),
		slog.Int("catalog_rows", result.CatalogRows),
		slog.Int("skipped_rows", result.SkippedRows),
		slog.Int("products", result.Products),
		slog.Int("departments", result.Departments),
		slog.Int("report_rows", result.ReportRows),
		slog.Duration("elapsed", result.Elapsed))

	return result, nil
}

// stage runs fn inside a traced, timed stage after checking for cancellation
func (s *ReportService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()
	stageCtx, span := s.tracer.TraceStage(ctx, name)
	err := fn(stageCtx)
	s.tracer.EndStage(stageCtx, span, name, started, err)
	return err
}

func (s *ReportService) validate(req RunRequest) error {
	if err := s.validator.ValidateInputFile(req.OrdersPath); err != nil {
		return err
	}
	if err := s.validator.ValidateInputFile(req.CatalogPath); err != nil {
		return err
	}
	return s.validator.ValidateOutputTarget(req.OutputPath, s.writeOpts.Mode)
}

// loadDataset reads and classifies the dataset at path, which must hold the
// expected schema.
func (s *ReportService) loadDataset(ctx context.Context, path string, expected domain.SchemaKind) (*dataprocessing.ClassifiedDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer file.Close()

	ds, err := dataprocessing.ReadDataset(file, path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read dataset", err).WithContext("path", path)
	}

	kind := expected
	if s.cfg.Input.DetectSchema {
		kind = domain.SchemaUnknown
	}

	classified, err := s.classifier.Classify(ctx, ds, kind)
	if err != nil {
		if errors.Is(err, dataprocessing.ErrUnknownSchema) {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("expected a %s dataset", expected), err).WithContext("path", path)
		}
		return nil, apperrors.NewParsingError("failed to classify dataset", err).WithContext("path", path)
	}
	if classified.Kind != expected {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("expected a %s dataset, found %s", expected, classified.Kind), nil).WithContext("path", path)
	}

	s.logRowErrors(ctx, classified)
	return classified, nil
}

// logRowErrors logs the first rejected rows individually and summarizes the rest
func (s *ReportService) logRowErrors(ctx context.Context, ds *dataprocessing.ClassifiedDataset) {
	if len(ds.RowErrors) == 0 {
		return
	}

	limit := s.cfg.Input.MaxLoggedRowErrors
	for i, rowErr := range ds.RowErrors {
		if i >= limit {
			break
		}
		infrastructure.WithError(s.logger, rowErr).WarnContext(ctx, "skipping malformed row",
			slog.String("dataset", ds.Name),
			slog.Int("line", rowErr.Line),
			slog.String("reason", rowErr.Reason))
	}

	if len(ds.RowErrors) > limit {
		s.logger.WarnContext(ctx, "further malformed rows not logged individually",
			slog.String("dataset", ds.Name),
			slog.Int("unlogged", len(ds.RowErrors)-limit),
			slog.Any("skipped_by_reason", ds.SkippedByReason()))
	}
}

func (s *ReportService) export(ctx context.Context, path string, rows []domain.ReportRow) error {
	err := s.writer.WriteReport(ctx, path, rows, s.writeOpts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, exporter.ErrOutputExists):
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "refusing to replace report in fail mode", err).
			WithContext("path", path)
	default:
		return apperrors.NewStorageError("failed to write report", err).WithContext("path", path)
	}
}
