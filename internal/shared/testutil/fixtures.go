package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Sample datasets: products 10 and 11 belong to department 5 and are ordered
// three times, two of them first orders. Product 12 in department 6 is never
// ordered.
const (
	SampleOrders = "order_id,product_id,add_to_cart_order,reordered\n" +
		"1,10,1,0\n" +
		"2,10,1,1\n" +
		"2,11,2,0\n"

	SampleProducts = "product_id,product_name,aisle_id,department_id\n" +
		"10,\"Chips, Sea Salt\",107,5\n" +
		"11,Sparkling Water,115,5\n" +
		"12,Dish Soap,74,6\n"

	SampleReportHeader = "department_id,number_of_orders,number_of_first_orders,percentage\n"

	SampleReport = SampleReportHeader + "5,3,2,0.67\n"
)

// DatasetFiles are the paths of one run's inputs and output
type DatasetFiles struct {
	Dir      string
	Orders   string
	Products string
	Report   string
}

// WriteDatasets writes the two input datasets into a fresh temp directory.
// The report path points into a not yet existing subdirectory.
func WriteDatasets(t *testing.T, orders, products string) DatasetFiles {
	t.Helper()
	dir := t.TempDir()
	files := DatasetFiles{
		Dir:      dir,
		Orders:   filepath.Join(dir, "order_products.csv"),
		Products: filepath.Join(dir, "products.csv"),
		Report:   filepath.Join(dir, "out", "report.csv"),
	}
	WriteFile(t, files.Orders, orders)
	WriteFile(t, files.Products, products)
	return files
}

// WriteFile writes content to path, failing the test on error
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test on error
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}
