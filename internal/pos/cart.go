// Package pos holds the client-side order engine: the cart, the operator
// session and checkout.
package pos

import (
	"slices"

	"zenith-pos/internal/domain"
)

// Snapshot is what observers receive after every cart mutation.
type Snapshot struct {
	Items  []domain.CartItem
	Totals Totals
}

// Cart is a single-owner order in progress. It holds at most one line per
// product id and every line has quantity >= 1. Cart is not safe for
// concurrent use.
type Cart struct {
	taxRate   float64
	lines     []domain.CartItem
	products  []domain.Product
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewCart creates an empty cart that taxes at taxRate.
func NewCart(taxRate float64) *Cart {
	return &Cart{
		taxRate:   taxRate,
		observers: make(map[int]func(Snapshot)),
	}
}

// TaxRate returns the rate used by Totals.
func (c *Cart) TaxRate() float64 {
	return c.taxRate
}

// AddProduct adds one unit of p, merging into an existing line for the same id.
func (c *Cart) AddProduct(p domain.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, domain.CartItem{Product: p, Quantity: 1})
	}
	c.notify()
}

// UpdateQuantity sets the quantity of an existing line. A quantity <= 0
// removes the line; an unknown id is ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if quantity > 0 {
		c.lines[i].Quantity = quantity
	} else {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
	c.notify()
}

// Remove drops the line for productID if present.
func (c *Cart) Remove(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.notify()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.notify()
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []domain.CartItem {
	return domain.CloneItems(c.lines)
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Totals computes the current totals. It never mutates the cart.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.lines, c.taxRate)
}

// SetProducts replaces the catalog snapshot used for barcode lookups.
func (c *Cart) SetProducts(products []domain.Product) {
	c.products = slices.Clone(products)
}

// ProductByBarcode returns the first product in the last catalog snapshot
// whose barcode matches.
func (c *Cart) ProductByBarcode(barcode string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func unregisters it.
func (c *Cart) Subscribe(fn func(Snapshot)) (cancel func()) {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.lines, func(l domain.CartItem) bool { return l.ID == productID })
}

func (c *Cart) notify() {
	if len(c.observers) == 0 {
		return
	}
	snap := Snapshot{Items: c.Items(), Totals: c.Totals()}
	for _, fn := range c.observers {
		fn(snap)
	}
}
