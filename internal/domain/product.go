package domain

// Product represents a sellable catalog item.
// Barcode and SKU are lookup keys only; nothing enforces their uniqueness.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required,min=2"`
	Price    float64 `json:"price" validate:"gte=0"`
	SKU      string  `json:"sku" validate:"required"`
	Barcode  string  `json:"barcode" validate:"required"`
	ImageURL string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

func (p *Product) RecordID() string      { return p.ID }
func (p *Product) SetRecordID(id string) { p.ID = id }

// CartItem is a product line in an order. Quantity is always >= 1 while the
// line exists.
type CartItem struct {
	Product
	Quantity int `json:"quantity" validate:"gte=1"`
}

// LineTotal returns price * quantity as a float. Exact sums go through the
// pos package.
func (c CartItem) LineTotal() float64 {
	return c.Price * float64(c.Quantity)
}
