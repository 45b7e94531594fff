package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"salescli/pkg/contracts/domain"
)

// ExtractionMode selects how consumed fields are located in a row
type ExtractionMode string

const (
	// ExtractColumns reads each field from its declared column index
	ExtractColumns ExtractionMode = "columns"
	// ExtractDigits treats all-digit fields as the integer columns and picks
	// consumed fields by their position among them. A numeric product name
	// shifts the positions; this mirrors how the source data was first read.
	ExtractDigits ExtractionMode = "digits"
)

// ParseExtractionMode converts a configuration string into an ExtractionMode
func ParseExtractionMode(s string) (ExtractionMode, error) {
	switch ExtractionMode(s) {
	case ExtractColumns, ExtractDigits:
		return ExtractionMode(s), nil
	case "":
		return ExtractColumns, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q (want columns or digits)", s)
	}
}

// Record is one classified row, tagged with the schema it came from.
// Exactly one of Order and Catalog is meaningful, selected by Kind.
type Record struct {
	Kind    domain.SchemaKind
	Line    int
	Order   domain.OrderLine
	Catalog domain.CatalogEntry
}

// ClassifiedDataset is the outcome of classifying one dataset
type ClassifiedDataset struct {
	Name      string
	Kind      domain.SchemaKind
	RowsRead  int
	Records   []Record
	RowErrors []*RowError
}

// SkippedByReason counts rejected rows per reason
func (c *ClassifiedDataset) SkippedByReason() map[string]int {
	counts := make(map[string]int)
	for _, e := range c.RowErrors {
		counts[e.Reason]++
	}
	return counts
}

// ClassifierOptions configures a Classifier
type ClassifierOptions struct {
	Extraction ExtractionMode
}

// Classifier matches datasets to schemas and extracts typed records
type Classifier struct {
	logger     *slog.Logger
	extraction ExtractionMode
}

// NewClassifier creates a classifier; the zero options extract by column
func NewClassifier(logger *slog.Logger, opts ClassifierOptions) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Extraction == "" {
		opts.Extraction = ExtractColumns
	}
	return &Classifier{
		logger:     logger,
		extraction: opts.Extraction,
	}
}

// Classify extracts records from ds. With kind SchemaUnknown the schema is
// detected from the header and an unrecognized header returns
// ErrUnknownSchema. With an explicit kind a non-matching header is only
// logged and the declared column layout is applied.
func (c *Classifier) Classify(ctx context.Context, ds *Dataset, kind domain.SchemaKind) (*ClassifiedDataset, error) {
	if kind == domain.SchemaUnknown {
		detected, err := DetectSchema(ds.Header)
		if err != nil {
			c.logger.ErrorContext(ctx, "dataset header matches no known schema",
				slog.String("dataset", ds.Name),
				slog.Any("header", ds.Header))
			return nil, fmt.Errorf("%s: %w", ds.Name, err)
		}
		kind = detected
	}

	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Name, err)
	}

	if !schema.MatchesHeader(ds.Header) {
		c.logger.WarnContext(ctx, "dataset header does not match declared schema, using declared columns",
			slog.String("dataset", ds.Name),
			slog.String("schema", kind.String()),
			slog.Any("header", ds.Header))
	}

	out := &ClassifiedDataset{
		Name:      ds.Name,
		Kind:      kind,
		RowsRead:  len(ds.Rows) + len(ds.ParseErrors),
		Records:   make([]Record, 0, len(ds.Rows)),
		RowErrors: append([]*RowError(nil), ds.ParseErrors...),
	}

	for _, row := range ds.Rows {
		rec, rowErr := ClassifyRow(schema, c.extraction, row)
		if rowErr != nil {
			rowErr.Dataset = ds.Name
			out.RowErrors = append(out.RowErrors, rowErr)
			continue
		}
		out.Records = append(out.Records, rec)
	}

	c.logger.DebugContext(ctx, "dataset classified",
		slog.String("dataset", ds.Name),
		slog.String("schema", kind.String()),
		slog.String("extraction", string(c.extraction)),
		slog.Int("rows", out.RowsRead),
		slog.Int("records", len(out.Records)),
		slog.Int("row_errors", len(out.RowErrors)))

	return out, nil
}

// ClassifyRow extracts the consumed fields of one row
func ClassifyRow(schema *Schema, mode ExtractionMode, row Row) (Record, *RowError) {
	values, rowErr := extractFields(schema, mode, row)
	if rowErr != nil {
		return Record{}, rowErr
	}

	rec := Record{Kind: schema.Kind, Line: row.Line}
	switch schema.Kind {
	case domain.SchemaOrderLines:
		rec.Order = domain.OrderLine{
			ProductID: values[FieldProductID],
			Reordered: values[FieldReordered],
		}
	case domain.SchemaProductCatalog:
		rec.Catalog = domain.CatalogEntry{
			ProductID:    values[FieldProductID],
			DepartmentID: values[FieldDepartmentID],
		}
	}
	return rec, nil
}

func extractFields(schema *Schema, mode ExtractionMode, row Row) (map[string]int64, *RowError) {
	values := make(map[string]int64, len(schema.Fields))

	if mode == ExtractDigits {
		integers := integerFields(row.Fields)
		for _, f := range schema.Fields {
			if f.IntegerOrdinal >= len(integers) {
				return nil, &RowError{
					Line:   row.Line,
					Field:  f.Name,
					Reason: ReasonNotEnoughIntegers,
					Fields: row.Fields,
					Cause:  fmt.Errorf("need %d integer fields, found %d", f.IntegerOrdinal+1, len(integers)),
				}
			}
			values[f.Name] = integers[f.IntegerOrdinal]
		}
		return values, nil
	}

	positions, ok := schema.Locate(len(row.Fields))
	if !ok {
		reason := ReasonColumnCount
		if len(row.Fields) < len(schema.Columns) {
			reason = ReasonMissingColumn
		}
		return nil, &RowError{
			Line:   row.Line,
			Reason: reason,
			Fields: row.Fields,
			Cause:  fmt.Errorf("need %d columns, found %d", len(schema.Columns), len(row.Fields)),
		}
	}

	for _, f := range schema.Fields {
		raw := strings.TrimSpace(row.Fields[positions[f.Column]])
		if !isDigits(raw) {
			return nil, &RowError{
				Line:   row.Line,
				Field:  f.Name,
				Reason: ReasonNotInteger,
				Fields: row.Fields,
				Cause:  fmt.Errorf("value %q", raw),
			}
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &RowError{
				Line:   row.Line,
				Field:  f.Name,
				Reason: ReasonNotInteger,
				Fields: row.Fields,
				Cause:  err,
			}
		}
		values[f.Name] = v
	}
	return values, nil
}

// integerFields returns the all-digit fields of a row, in order. Fields are
// tested as read, so " 7" is text. Digit runs too long for int64 are text too.
func integerFields(fields []string) []int64 {
	var out []int64
	for _, field := range fields {
		if !isDigits(field) {
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
