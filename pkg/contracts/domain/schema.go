package domain

// SchemaKind identifies which of the known input layouts a dataset follows
type SchemaKind string

const (
	SchemaUnknown        SchemaKind = ""
	SchemaOrderLines     SchemaKind = "order_lines"
	SchemaProductCatalog SchemaKind = "product_catalog"
)

// String returns a printable name, "unknown" for the zero value
func (k SchemaKind) String() string {
	if k == SchemaUnknown {
		return "unknown"
	}
	return string(k)
}

// OrderLine carries the order-line fields the aggregation consumes
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Reordered int64 `json:"reordered"`
}

// IsFirstOrder reports whether a reorder flag marks the user's first purchase
// of the product
func IsFirstOrder(reordered int64) bool {
	return reordered == 0
}

// CatalogEntry carries the catalog fields the aggregation consumes
type CatalogEntry struct {
	ProductID    int64 `json:"product_id"`
	DepartmentID int64 `json:"department_id"`
}
