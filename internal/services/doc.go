// Package services wires the report pipeline into a single operation.
//
// ReportService.Run validates the input and output paths, reads and
// classifies the order-line and product catalog datasets, folds them into
// the product and department tables, builds the department report and
// writes it with the configured exporter. Each stage runs inside its own
// span and records its duration; rejected rows are counted per reason.
//
// Typical use:
//
//	svc, err := services.NewReportService(cfg, providers, logger)
//	if err != nil {
//	    return err
//	}
//	summary, err := svc.Run(ctx, services.RunRequest{
//	    OrdersPath:  "order_products.csv",
//	    CatalogPath: "products.csv",
//	    OutputPath:  "report.csv",
//	})
//
// Errors are *errors.AppError values typed as NOT_FOUND, PERMISSION,
// VALIDATION, PARSING, SCHEMA, STORAGE or CONFIG so callers can render
// them for a terminal with errors.UserMessage.
package services
