package dataprocessing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func readTestDataset(t *testing.T, name, content string) *Dataset {
	t.Helper()
	ds, err := ReadDataset(strings.NewReader(content), name)
	require.NoError(t, err)
	return ds
}

func TestParseExtractionMode(t *testing.T) {
	m, err := ParseExtractionMode("")
	require.NoError(t, err)
	assert.Equal(t, ExtractColumns, m)

	m, err = ParseExtractionMode("digits")
	require.NoError(t, err)
	assert.Equal(t, ExtractDigits, m)

	_, err = ParseExtractionMode("regex")
	assert.Error(t, err)
}

func TestClassifyRow_Columns(t *testing.T) {
	tests := []struct {
		name       string
		schema     *Schema
		fields     []string
		wantReason string
		check      func(t *testing.T, rec Record)
	}{
		{
			name:   "order line",
			schema: OrderLinesSchema,
			fields: []string{"1", "49302", "1", "1"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.OrderLine{ProductID: 49302, Reordered: 1}, rec.Order)
			},
		},
		{
			name:   "catalog entry with comma in name",
			schema: ProductCatalogSchema,
			fields: []string{"2", "Ham, Smoked", "5", "13"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.CatalogEntry{ProductID: 2, DepartmentID: 13}, rec.Catalog)
			},
		},
		{
			name:   "catalog entry with numeric name",
			schema: ProductCatalogSchema,
			fields: []string{"7", "7", "5", "13"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.CatalogEntry{ProductID: 7, DepartmentID: 13}, rec.Catalog)
			},
		},
		{
			name:   "surrounding spaces are trimmed",
			schema: OrderLinesSchema,
			fields: []string{"1", " 12 ", "1", " 0"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.OrderLine{ProductID: 12, Reordered: 0}, rec.Order)
			},
		},
		{
			name:   "catalog entry with unquoted comma in name",
			schema: ProductCatalogSchema,
			fields: []string{"5", "Foo", " Bar", "3", "7"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.CatalogEntry{ProductID: 5, DepartmentID: 7}, rec.Catalog)
			},
		},
		{
			name:   "catalog entry with two unquoted commas in name",
			schema: ProductCatalogSchema,
			fields: []string{"6", "Salt", " Pepper", " Mix", "104", "13"},
			check: func(t *testing.T, rec Record) {
				assert.Equal(t, domain.CatalogEntry{ProductID: 6, DepartmentID: 13}, rec.Catalog)
			},
		},
		{
			name:       "order line with extra column",
			schema:     OrderLinesSchema,
			fields:     []string{"1", "49302", "1", "1", "9"},
			wantReason: ReasonColumnCount,
		},
		{
			name:       "catalog entry missing a column",
			schema:     ProductCatalogSchema,
			fields:     []string{"5", "Tea", "7"},
			wantReason: ReasonMissingColumn,
		},
		{
			name:       "too few columns",
			schema:     OrderLinesSchema,
			fields:     []string{"1", "2"},
			wantReason: ReasonMissingColumn,
		},
		{
			name:       "non integer value",
			schema:     OrderLinesSchema,
			fields:     []string{"1", "abc", "1", "0"},
			wantReason: ReasonNotInteger,
		},
		{
			name:       "negative value",
			schema:     ProductCatalogSchema,
			fields:     []string{"-3", "Tea", "5", "13"},
			wantReason: ReasonNotInteger,
		},
		{
			name:       "empty value",
			schema:     ProductCatalogSchema,
			fields:     []string{"3", "Tea", "5", ""},
			wantReason: ReasonNotInteger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ClassifyRow(tt.schema, ExtractColumns, Row{Line: 9, Fields: tt.fields})
			if tt.wantReason != "" {
				require.NotNil(t, rowErr)
				assert.Equal(t, tt.wantReason, rowErr.Reason)
				assert.Equal(t, 9, rowErr.Line)
				assert.True(t, errors.Is(rowErr, ErrMalformedRow))
				return
			}
			require.Nil(t, rowErr)
			assert.Equal(t, tt.schema.Kind, rec.Kind)
			assert.Equal(t, 9, rec.Line)
			tt.check(t, rec)
		})
	}
}

func TestClassifyRow_Digits(t *testing.T) {
	tests := []struct {
		name       string
		schema     *Schema
		fields     []string
		want       Record
		wantReason string
	}{
		{
			name:   "order line picks second and fourth integers",
			schema: OrderLinesSchema,
			fields: []string{"1", "49302", "1", "1"},
			want:   Record{Kind: domain.SchemaOrderLines, Line: 4, Order: domain.OrderLine{ProductID: 49302, Reordered: 1}},
		},
		{
			name:   "catalog skips text name",
			schema: ProductCatalogSchema,
			fields: []string{"2", "Ham, Smoked", "5", "13"},
			want:   Record{Kind: domain.SchemaProductCatalog, Line: 4, Catalog: domain.CatalogEntry{ProductID: 2, DepartmentID: 13}},
		},
		{
			name:   "numeric name shifts the third integer",
			schema: ProductCatalogSchema,
			fields: []string{"7", "7", "5", "13"},
			want:   Record{Kind: domain.SchemaProductCatalog, Line: 4, Catalog: domain.CatalogEntry{ProductID: 7, DepartmentID: 5}},
		},
		{
			name:   "unquoted comma in name",
			schema: ProductCatalogSchema,
			fields: []string{"5", "Foo", " Bar", "3", "7"},
			want:   Record{Kind: domain.SchemaProductCatalog, Line: 4, Catalog: domain.CatalogEntry{ProductID: 5, DepartmentID: 7}},
		},
		{
			name:       "padded digits are text",
			schema:     OrderLinesSchema,
			fields:     []string{"1", "12", "1", " 0"},
			wantReason: ReasonNotEnoughIntegers,
		},
		{
			name:       "too few integer fields",
			schema:     OrderLinesSchema,
			fields:     []string{"1", "2", "x", "y"},
			wantReason: ReasonNotEnoughIntegers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ClassifyRow(tt.schema, ExtractDigits, Row{Line: 4, Fields: tt.fields})
			if tt.wantReason != "" {
				require.NotNil(t, rowErr)
				assert.Equal(t, tt.wantReason, rowErr.Reason)
				return
			}
			require.Nil(t, rowErr)
			assert.Equal(t, tt.want, rec)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(testLogger(), ClassifierOptions{})

	ds := readTestDataset(t, "orders.csv",
		"order_id,product_id,add_to_cart_order,reordered\n"+
			"1,10,1,0\n"+
			"1,oops,2,0\n"+
			"2,10,1,1\n"+
			"3,11\n"+
			"3,11,1,0\n")

	out, err := c.Classify(ctx, ds, domain.SchemaUnknown)
	require.NoError(t, err)

	assert.Equal(t, domain.SchemaOrderLines, out.Kind)
	assert.Equal(t, 5, out.RowsRead)
	require.Len(t, out.Records, 3)
	assert.Equal(t, int64(11), out.Records[2].Order.ProductID)
	require.Len(t, out.RowErrors, 2)
	assert.Equal(t, 3, out.RowErrors[0].Line)
	assert.Equal(t, "orders.csv", out.RowErrors[0].Dataset)
	assert.Equal(t, map[string]int{ReasonNotInteger: 1, ReasonMissingColumn: 1}, out.SkippedByReason())
}

func TestClassifier_UnknownSchema(t *testing.T) {
	c := NewClassifier(testLogger(), ClassifierOptions{})
	ds := readTestDataset(t, "aisles.csv", "aisle_id,aisle\n1,prepared soups salads\n")

	_, err := c.Classify(context.Background(), ds, domain.SchemaUnknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSchema))
}

func TestClassifier_ExplicitKindIgnoresHeader(t *testing.T) {
	c := NewClassifier(testLogger(), ClassifierOptions{})
	ds := readTestDataset(t, "products.csv", "id,name,aisle,dept\n5,Tea,94,7\n")

	out, err := c.Classify(context.Background(), ds, domain.SchemaProductCatalog)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, domain.CatalogEntry{ProductID: 5, DepartmentID: 7}, out.Records[0].Catalog)
}

func TestClassifier_UnquotedCommaInProductName(t *testing.T) {
	c := NewClassifier(testLogger(), ClassifierOptions{})
	ds := readTestDataset(t, "products.csv",
		"product_id,product_name,aisle_id,department_id\n"+
			"5,Foo, Bar,3,7\n"+
			"6,Tea,94,8\n")

	out, err := c.Classify(context.Background(), ds, domain.SchemaProductCatalog)
	require.NoError(t, err)
	require.Empty(t, out.RowErrors)
	require.Len(t, out.Records, 2)
	assert.Equal(t, domain.CatalogEntry{ProductID: 5, DepartmentID: 7}, out.Records[0].Catalog)
	assert.Equal(t, domain.CatalogEntry{ProductID: 6, DepartmentID: 8}, out.Records[1].Catalog)
}
