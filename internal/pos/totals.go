package pos

import (
	"zenith-pos/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the sales tax applied when none is configured.
const DefaultTaxRate = 0.08

// Totals is the money summary of a set of cart lines. Values are exact
// decimals; round only for display.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from lines at rate.
func ComputeTotals(lines []domain.CartItem, rate float64) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(decimal.NewFromFloat(rate))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
