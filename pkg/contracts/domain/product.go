package domain

// ProductCounter tracks how often a product was ordered and how many of those
// orders were first orders. One counter exists per distinct product id seen in
// the order-line dataset.
type ProductCounter struct {
	ProductID       int64 `json:"product_id"`
	OrderCount      int64 `json:"order_count"`
	FirstOrderCount int64 `json:"first_order_count"`
}

// NewProductCounter seeds a counter from the first order line of a product.
// A reorder flag of 0 marks the line as a first order.
func NewProductCounter(productID, reordered int64) ProductCounter {
	c := ProductCounter{
		ProductID:  productID,
		OrderCount: 1,
	}
	if IsFirstOrder(reordered) {
		c.FirstOrderCount = 1
	}
	return c
}

// AddOrder counts one more order line for the product.
func (c *ProductCounter) AddOrder(reordered int64) {
	c.OrderCount++
	if IsFirstOrder(reordered) {
		c.FirstOrderCount++
	}
}
