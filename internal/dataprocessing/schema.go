package dataprocessing

import (
	"fmt"

	"salescli/pkg/contracts/domain"
)

// ColumnKind is the declared type of a column
type ColumnKind int

const (
	ColumnInteger ColumnKind = iota
	ColumnText
)

// Column declares one position of a schema
type Column struct {
	Name string
	Kind ColumnKind
}

// Field is a value the aggregation consumes from a row. Column is its
// position in the declared layout; IntegerOrdinal is its position among the
// integer-looking fields, used by the digit-shape extraction.
type Field struct {
	Name           string
	Column         int
	IntegerOrdinal int
}

// Field names consumed by the aggregation
const (
	FieldProductID    = "product_id"
	FieldReordered    = "reordered"
	FieldDepartmentID = "department_id"
)

// Schema is an explicit column layout for one kind of dataset
type Schema struct {
	Kind    domain.SchemaKind
	Columns []Column
	Fields  []Field
}

// OrderLinesSchema is the order_products layout
var OrderLinesSchema = &Schema{
	Kind: domain.SchemaOrderLines,
	Columns: []Column{
		{Name: "order_id", Kind: ColumnInteger},
		{Name: "product_id", Kind: ColumnInteger},
		{Name: "add_to_cart_order", Kind: ColumnInteger},
		{Name: "reordered", Kind: ColumnInteger},
	},
	Fields: []Field{
		{Name: FieldProductID, Column: 1, IntegerOrdinal: 1},
		{Name: FieldReordered, Column: 3, IntegerOrdinal: 3},
	},
}

// ProductCatalogSchema is the products layout; product_name is free text
var ProductCatalogSchema = &Schema{
	Kind: domain.SchemaProductCatalog,
	Columns: []Column{
		{Name: "product_id", Kind: ColumnInteger},
		{Name: "product_name", Kind: ColumnText},
		{Name: "aisle_id", Kind: ColumnInteger},
		{Name: "department_id", Kind: ColumnInteger},
	},
	Fields: []Field{
		{Name: FieldProductID, Column: 0, IntegerOrdinal: 0},
		{Name: FieldDepartmentID, Column: 3, IntegerOrdinal: 2},
	},
}

// textColumn returns the index of the schema's free-text column, or -1
func (s *Schema) textColumn() int {
	for i, c := range s.Columns {
		if c.Kind == ColumnText {
			return i
		}
	}
	return -1
}

// Locate maps each declared column to the raw field that holds it in a row
// of width fields. Surplus fields left by an unquoted comma belong to the
// text column, so columns after it are counted from the right end of the
// row. ok is false when the width cannot be mapped: too few fields, or
// surplus fields with no text column to absorb them.
func (s *Schema) Locate(width int) (positions []int, ok bool) {
	if width < len(s.Columns) {
		return nil, false
	}
	surplus := width - len(s.Columns)
	text := s.textColumn()
	if surplus > 0 && text < 0 {
		return nil, false
	}
	positions = make([]int, len(s.Columns))
	for i := range s.Columns {
		positions[i] = i
		if surplus > 0 && i > text {
			positions[i] = i + surplus
		}
	}
	return positions, true
}

// SchemaFor returns the declared layout of kind
func SchemaFor(kind domain.SchemaKind) (*Schema, error) {
	switch kind {
	case domain.SchemaOrderLines:
		return OrderLinesSchema, nil
	case domain.SchemaProductCatalog:
		return ProductCatalogSchema, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, kind)
	}
}

// MatchesHeader reports whether the header's first two columns are this
// schema's first two column names.
func (s *Schema) MatchesHeader(header []string) bool {
	if len(header) < 2 || len(s.Columns) < 2 {
		return false
	}
	return header[0] == s.Columns[0].Name && header[1] == s.Columns[1].Name
}

// DetectSchema identifies a dataset from the first two names of its header
func DetectSchema(header []string) (domain.SchemaKind, error) {
	for _, s := range []*Schema{OrderLinesSchema, ProductCatalogSchema} {
		if s.MatchesHeader(header) {
			return s.Kind, nil
		}
	}
	return domain.SchemaUnknown, fmt.Errorf("%w: header %q", ErrUnknownSchema, header)
}
