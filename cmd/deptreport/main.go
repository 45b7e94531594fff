package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/services"
	"salescli/pkg/contracts"
)

const usageText = `Usage: deptreport [flags] <order_products.csv> <products.csv> <report.csv>

Computes, per department, how many orders its products received and how many
of those were first orders.

Flags:
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds flag values; only flags set on the command line override config
type cliFlags struct {
	configPath   string
	mode         string
	format       string
	extraction   string
	trace        string
	metricsFile  string
	includeEmpty bool
	detectSchema bool
	strict       bool
	bomPrefix    bool
	version      bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file (default: config.yaml or configs/config.yaml)")
	fs.StringVar(&f.mode, "mode", "", "report write mode: overwrite, append or fail")
	fs.StringVar(&f.format, "format", "", "report format: csv or xlsx")
	fs.StringVar(&f.extraction, "extraction", "", "field extraction: columns or digits")
	fs.StringVar(&f.trace, "trace", "", "trace exporter: stdout or none")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	fs.BoolVar(&f.includeEmpty, "include-empty", false, "keep departments whose products were never ordered")
	fs.BoolVar(&f.detectSchema, "detect-schema", false, "identify each dataset from its header")
	fs.BoolVar(&f.strict, "strict", false, "fail the run if any row is malformed")
	fs.BoolVar(&f.bomPrefix, "bom", false, "prefix CSV reports with a UTF-8 BOM")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return apperrors.ExitOK
		}
		return apperrors.ExitUsage
	}
	if f.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return apperrors.ExitOK
	}
	if fs.NArg() != 3 {
		fmt.Fprintf(stderr, "%s: expected 3 arguments, got %d\n", config.AppName, fs.NArg())
		fs.Usage()
		return apperrors.ExitUsage
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apperrors.ExitFailure
	}
	applyFlags(fs, &f, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: invalid flags: %v\n", config.AppName, err)
		return apperrors.ExitUsage
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logger: %v\n", config.AppName, err)
		return apperrors.ExitFailure
	}
	defer infrastructure.CloseLogFile()

	handler := apperrors.NewErrorHandler(logger, config.AppName, cfg.Logging.Development)
	ctx = infrastructure.EnsureRunID(ctx)

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.TraceWriter = stderr
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return handler.Handle(ctx, stderr, apperrors.NewConfigError("failed to initialize telemetry", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("telemetry shutdown failed")
		}
	}()

	svc, err := services.NewReportService(cfg, providers, logger)
	if err != nil {
		return handler.Handle(ctx, stderr, err)
	}

	start := time.Now()
	_, runErr := svc.Run(ctx, services.RunRequest{
		OrdersPath:  fs.Arg(0),
		CatalogPath: fs.Arg(1),
		OutputPath:  fs.Arg(2),
	})

	if path := cfg.Telemetry.MetricsFile; path != "" && cfg.Telemetry.EnableMetrics {
		if err := providers.WriteMetricsTextfile(path); err != nil {
			infrastructure.WithError(logger, err).Warn("failed to write metrics textfile",
				slog.String("path", path))
		}
	}

	if runErr != nil {
		return handler.Handle(ctx, stderr, runErr)
	}

	fmt.Fprintf(stdout, "--- %.2f minutes ---\n", time.Since(start).Minutes())
	return apperrors.ExitOK
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(fs *flag.FlagSet, f *cliFlags, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			cfg.Report.WriteMode = f.mode
		case "format":
			cfg.Report.Format = f.format
		case "extraction":
			cfg.Input.Extraction = f.extraction
		case "trace":
			cfg.Telemetry.TraceExporter = f.trace
		case "metrics-file":
			cfg.Telemetry.MetricsFile = f.metricsFile
			cfg.Telemetry.EnableMetrics = true
		case "include-empty":
			cfg.Report.IncludeEmpty = f.includeEmpty
		case "detect-schema":
			cfg.Input.DetectSchema = f.detectSchema
		case "strict":
			cfg.Input.Strict = f.strict
		case "bom":
			cfg.Report.BOMPrefix = f.bomPrefix
		}
	})
}
