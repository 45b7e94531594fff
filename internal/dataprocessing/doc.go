// Package dataprocessing turns the two raw input datasets into the
// department report. It holds the only real logic of the tool.
//
// # Architecture
//
// The package is organized into three components, in data-flow order:
//
// 1. Classifier: matches a dataset to one of the known schemas and extracts
// the typed fields each row contributes (product, reorder flag, department)
// 2. Aggregator: folds classified records into a per-product counter table
// and a per-department member list
// 3. ReportBuilder: joins the two tables into one sorted row per department
//
// # Usage
//
//	ds, err := dataprocessing.ReadDataset(f, "order_products.csv")
//	classifier := dataprocessing.NewClassifier(logger, dataprocessing.ClassifierOptions{})
//	orders, err := classifier.Classify(ctx, ds, domain.SchemaOrderLines)
//
//	agg := dataprocessing.NewAggregator()
//	agg.ApplyAll(orders.Records)
//	agg.ApplyAll(catalog.Records)
//
//	rows := dataprocessing.NewReportBuilder(logger, dataprocessing.ReportOptions{}).
//		Build(ctx, agg.Aggregates())
//
// # Data Flow
//
//	CSV text → Dataset → Classifier → Records → Aggregator → Aggregates → ReportBuilder → ReportRows
//
// # Error Handling
//
// A dataset whose header matches no schema yields ErrUnknownSchema. A row
// that lacks a consumed field yields a *RowError wrapping ErrMalformedRow;
// it is collected on the ClassifiedDataset and never stops the remaining rows.
package dataprocessing
