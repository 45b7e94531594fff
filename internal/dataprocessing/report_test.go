package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/shared/testutil"
	"salescli/pkg/contracts/domain"
)

func TestBuildReport_SingleDepartment(t *testing.T) {
	// product 1: 3 orders (2 first), product 2: 2 orders (0 first), product 3 never ordered
	agg := Aggregates{
		Products: FoldOrders([]domain.OrderLine{
			{ProductID: 1, Reordered: 0},
			{ProductID: 1, Reordered: 0},
			{ProductID: 1, Reordered: 1},
			{ProductID: 2, Reordered: 1},
			{ProductID: 2, Reordered: 1},
		}),
		Departments: FoldCatalog([]domain.CatalogEntry{
			{ProductID: 1, DepartmentID: 7},
			{ProductID: 2, DepartmentID: 7},
			{ProductID: 3, DepartmentID: 7},
		}),
	}

	rows := BuildReport(agg, false)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].DepartmentID)
	assert.Equal(t, int64(5), rows[0].TotalOrders)
	assert.Equal(t, int64(2), rows[0].TotalFirstOrders)
	assert.InDelta(t, 0.4, rows[0].Ratio, 1e-9)
}

func TestBuildReport_ExcludesDepartmentsWithoutOrders(t *testing.T) {
	agg := Aggregates{
		Products: FoldOrders([]domain.OrderLine{{ProductID: 1, Reordered: 0}}),
		Departments: FoldCatalog([]domain.CatalogEntry{
			{ProductID: 1, DepartmentID: 2},
			{ProductID: 5, DepartmentID: 3},
		}),
	}

	rows := BuildReport(agg, false)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].DepartmentID)

	rows = BuildReport(agg, true)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.ReportRow{DepartmentID: 3}, rows[1])
}

func TestBuildReport_SortedUniqueDepartments(t *testing.T) {
	var orders []domain.OrderLine
	var catalog []domain.CatalogEntry
	for _, dept := range []int64{21, 3, 17, 1, 9, 3, 21} {
		product := dept * 100
		orders = append(orders, domain.OrderLine{ProductID: product})
		catalog = append(catalog, domain.CatalogEntry{ProductID: product, DepartmentID: dept})
	}

	rows := BuildReport(Aggregates{Products: FoldOrders(orders), Departments: FoldCatalog(catalog)}, false)
	require.Len(t, rows, 5)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].DepartmentID, rows[i].DepartmentID)
	}
	for _, r := range rows {
		assert.LessOrEqual(t, r.TotalFirstOrders, r.TotalOrders)
		assert.GreaterOrEqual(t, r.Ratio, 0.0)
		assert.LessOrEqual(t, r.Ratio, 1.0)
	}
}

func TestBuildReport_DuplicateMembersCountTwice(t *testing.T) {
	agg := Aggregates{
		Products: FoldOrders([]domain.OrderLine{{ProductID: 1, Reordered: 0}}),
		Departments: FoldCatalog([]domain.CatalogEntry{
			{ProductID: 1, DepartmentID: 4},
			{ProductID: 1, DepartmentID: 4},
		}),
	}

	rows := BuildReport(agg, false)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].TotalOrders)
	assert.Equal(t, int64(2), rows[0].TotalFirstOrders)
}

func TestBuildReport_Empty(t *testing.T) {
	assert.Empty(t, BuildReport(Aggregates{}, false))
	assert.Empty(t, BuildReport(Aggregates{Products: FoldOrders([]domain.OrderLine{{ProductID: 1}})}, true))
}

func TestReportBuilder_Build(t *testing.T) {
	b := NewReportBuilder(testLogger(), ReportOptions{IncludeEmpty: true})
	agg := Aggregates{
		Products:    map[int64]domain.ProductCounter{},
		Departments: FoldCatalog([]domain.CatalogEntry{{ProductID: 1, DepartmentID: 8}}),
	}

	rows := b.Build(context.Background(), agg)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Ratio)
}

func TestReportBuilder_LogsExcludedDepartments(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	agg := Aggregates{
		Products: FoldOrders([]domain.OrderLine{{ProductID: 1, Reordered: 0}}),
		Departments: FoldCatalog([]domain.CatalogEntry{
			{ProductID: 1, DepartmentID: 3},
			{ProductID: 2, DepartmentID: 4},
			{ProductID: 5, DepartmentID: 9},
		}),
	}

	rows := NewReportBuilder(logger, ReportOptions{}).Build(context.Background(), agg)
	require.Len(t, rows, 1)
	assert.True(t, logs.ContainsAttr("excluded_departments", int64(2)))

	logs.Clear()
	rows = NewReportBuilder(logger, ReportOptions{IncludeEmpty: true}).Build(context.Background(), agg)
	require.Len(t, rows, 3)
	assert.True(t, logs.ContainsAttr("excluded_departments", int64(0)))
}

// End to end over the sample data: dept 1 gets product 1 (2 orders) and
// product 2 (3 orders); three of the five are first orders.
func TestPipeline_SampleData(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(testLogger(), ClassifierOptions{})

	orders := readTestDataset(t, "order_products.csv",
		"order_id,product_id,add_to_cart_order,reordered\n"+
			"2,1,1,0\n"+
			"2,2,2,1\n"+
			"3,1,1,1\n"+
			"3,2,2,0\n"+
			"4,2,1,0\n")
	products := readTestDataset(t, "products.csv",
		"product_id,product_name,aisle_id,department_id\n"+
			"1,\"Sweet, Salty Bar\",61,1\n"+
			"2,Oolong Tea,94,1\n"+
			"3,Soup,38,2\n")

	a := NewAggregator()
	for _, ds := range []*Dataset{orders, products} {
		out, err := c.Classify(ctx, ds, domain.SchemaUnknown)
		require.NoError(t, err)
		a.ApplyAll(out.Records)
	}

	rows := NewReportBuilder(testLogger(), ReportOptions{}).Build(ctx, a.Aggregates())
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ReportRow{DepartmentID: 1, TotalOrders: 5, TotalFirstOrders: 3, Ratio: 0.6}, rows[0])
}

func TestBuildReport_TwoProductsOneDepartment(t *testing.T) {
	agg := Aggregates{
		Products: FoldOrders([]domain.OrderLine{
			{ProductID: 10, Reordered: 0},
			{ProductID: 10, Reordered: 1},
			{ProductID: 11, Reordered: 0},
		}),
		Departments: FoldCatalog([]domain.CatalogEntry{
			{ProductID: 10, DepartmentID: 5},
			{ProductID: 11, DepartmentID: 5},
			{ProductID: 12, DepartmentID: 6},
		}),
	}

	assert.Equal(t, domain.ProductCounter{ProductID: 10, OrderCount: 2, FirstOrderCount: 1}, agg.Products[10])

	rows := BuildReport(agg, false)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].DepartmentID)
	assert.Equal(t, int64(3), rows[0].TotalOrders)
	assert.Equal(t, int64(2), rows[0].TotalFirstOrders)
	assert.InDelta(t, 2.0/3.0, rows[0].Ratio, 1e-9)
}
