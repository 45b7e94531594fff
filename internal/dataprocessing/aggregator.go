package dataprocessing

import (
	"salescli/pkg/contracts/domain"
)

// Aggregates are the two tables the report is computed from
type Aggregates struct {
	Products    map[int64]domain.ProductCounter
	Departments map[int64]domain.DepartmentRecord
}

// Aggregator folds classified records into per-product counters and
// per-department member lists. The two tables are independent; product ids
// are never cross-checked between them.
type Aggregator struct {
	products    map[int64]*domain.ProductCounter
	departments map[int64]*domain.DepartmentRecord
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		products:    make(map[int64]*domain.ProductCounter),
		departments: make(map[int64]*domain.DepartmentRecord),
	}
}

// RecordOrder counts one order line for productID
func (a *Aggregator) RecordOrder(productID, reordered int64) {
	if c, ok := a.products[productID]; ok {
		c.AddOrder(reordered)
		return
	}
	c := domain.NewProductCounter(productID, reordered)
	a.products[productID] = &c
}

// RecordCatalogEntry adds productID to the members of departmentID
func (a *Aggregator) RecordCatalogEntry(departmentID, productID int64) {
	if d, ok := a.departments[departmentID]; ok {
		d.AddProduct(productID)
		return
	}
	d := domain.NewDepartmentRecord(departmentID, productID)
	a.departments[departmentID] = &d
}

// Apply routes a classified record to the matching table
func (a *Aggregator) Apply(rec Record) {
	switch rec.Kind {
	case domain.SchemaOrderLines:
		a.RecordOrder(rec.Order.ProductID, rec.Order.Reordered)
	case domain.SchemaProductCatalog:
		a.RecordCatalogEntry(rec.Catalog.DepartmentID, rec.Catalog.ProductID)
	}
}

// ApplyAll applies every record in order and returns how many were applied
func (a *Aggregator) ApplyAll(records []Record) int {
	n := 0
	for _, rec := range records {
		if rec.Kind == domain.SchemaUnknown {
			continue
		}
		a.Apply(rec)
		n++
	}
	return n
}

// ProductCount is the number of distinct products ordered so far
func (a *Aggregator) ProductCount() int {
	return len(a.products)
}

// DepartmentCount is the number of distinct departments seen so far
func (a *Aggregator) DepartmentCount() int {
	return len(a.departments)
}

// Aggregates returns copies of both tables. Later calls to Record* do not
// change a returned value.
func (a *Aggregator) Aggregates() Aggregates {
	out := Aggregates{
		Products:    make(map[int64]domain.ProductCounter, len(a.products)),
		Departments: make(map[int64]domain.DepartmentRecord, len(a.departments)),
	}
	for id, c := range a.products {
		out.Products[id] = *c
	}
	for id, d := range a.departments {
		out.Departments[id] = d.Clone()
	}
	return out
}

// FoldOrders builds the product table from order-line records alone
func FoldOrders(records []domain.OrderLine) map[int64]domain.ProductCounter {
	a := NewAggregator()
	for _, r := range records {
		a.RecordOrder(r.ProductID, r.Reordered)
	}
	return a.Aggregates().Products
}

// FoldCatalog builds the department table from catalog records alone
func FoldCatalog(records []domain.CatalogEntry) map[int64]domain.DepartmentRecord {
	a := NewAggregator()
	for _, r := range records {
		a.RecordCatalogEntry(r.DepartmentID, r.ProductID)
	}
	return a.Aggregates().Departments
}
