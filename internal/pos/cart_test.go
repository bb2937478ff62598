package pos

import (
	"testing"

	"zenith-pos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	espresso = domain.Product{ID: "prod_1", Name: "Espresso", Price: 2.50, SKU: "ZEN-ESP", Barcode: "111111"}
	latte    = domain.Product{ID: "prod_2", Name: "Latte", Price: 3.50, SKU: "ZEN-LAT", Barcode: "222222"}
	muffin   = domain.Product{ID: "prod_8", Name: "Muffin", Price: 2.50, SKU: "ZEN-MUF", Barcode: "888888"}
)

// Feature: pos-core, Property 4: Repeated adds merge into one line
func TestProperty_RepeatedAddMergesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("adding the same product N times yields one line of quantity N", prop.ForAll(
		func(n int) bool {
			cart := NewCart(DefaultTaxRate)
			for i := 0; i < n; i++ {
				cart.AddProduct(espresso)
			}
			items := cart.Items()
			if len(items) != 1 {
				t.Logf("FAIL: expected 1 line, got %d", len(items))
				return false
			}
			return items[0].Quantity == n
		},
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: pos-core, Property 5: Total equals subtotal plus tax
func TestProperty_TotalEqualsSubtotalTimesOnePlusRate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total == subtotal * (1 + rate) for any cart", prop.ForAll(
		func(cents []int, rateBasisPoints int) bool {
			rate := float64(rateBasisPoints) / 10000
			cart := NewCart(rate)
			for i, c := range cents {
				p := domain.Product{ID: string(rune('a' + i%26)), Name: "Item", Price: float64(c) / 100, SKU: "S", Barcode: "B"}
				cart.AddProduct(p)
			}

			totals := cart.Totals()
			want := totals.Subtotal.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate)))
			if !totals.Total.Equal(want) {
				t.Logf("FAIL: total %s, want %s", totals.Total, want)
				return false
			}
			return totals.Tax.Equal(totals.Subtotal.Mul(decimal.NewFromFloat(rate)))
		},
		gen.SliceOf(gen.IntRange(0, 100000)),
		gen.IntRange(0, 2500),
	))

	properties.Property("Totals never mutates the cart", prop.ForAll(
		func(n int) bool {
			cart := NewCart(DefaultTaxRate)
			for i := 0; i < n; i++ {
				cart.AddProduct(latte)
			}
			before := cart.Items()
			first := cart.Totals()
			second := cart.Totals()
			return first.Total.Equal(second.Total) && assert.ObjectsAreEqual(before, cart.Items())
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: pos-core, Property 6: Every line keeps quantity >= 1 and unique ids
func TestProperty_LineInvariantsHoldUnderMutation(t *testing.T) {
	catalog := []domain.Product{espresso, latte, muffin}
	properties := gopter.NewProperties(nil)

	properties.Property("random mutation sequences keep ids unique and quantities positive", prop.ForAll(
		func(ops []int, qtys []int) bool {
			cart := NewCart(DefaultTaxRate)
			for i, op := range ops {
				p := catalog[i%len(catalog)]
				q := 0
				if len(qtys) > 0 {
					q = qtys[i%len(qtys)]
				}
				switch op {
				case 0:
					cart.AddProduct(p)
				case 1:
					cart.UpdateQuantity(p.ID, q)
				case 2:
					cart.Remove(p.ID)
				}
			}
			seen := map[string]bool{}
			for _, item := range cart.Items() {
				if seen[item.ID] || item.Quantity < 1 {
					return false
				}
				seen[item.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.SliceOf(gen.IntRange(-5, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{name: "zero removes", quantity: 0, wantLen: 0},
		{name: "negative removes", quantity: -5, wantLen: 0},
		{name: "positive sets", quantity: 3, wantLen: 1, wantQty: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart(DefaultTaxRate)
			cart.AddProduct(espresso)

			cart.UpdateQuantity(espresso.ID, tt.quantity)

			items := cart.Items()
			require.Len(t, items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantQty, items[0].Quantity)
			}
		})
	}

	t.Run("unknown id is a no-op", func(t *testing.T) {
		cart := NewCart(DefaultTaxRate)
		cart.AddProduct(espresso)
		cart.UpdateQuantity("nope", 7)
		assert.Equal(t, 1, cart.Items()[0].Quantity)
	})
}

func TestCart_ExampleTotals(t *testing.T) {
	cart := NewCart(0.08)
	cart.AddProduct(espresso)
	cart.AddProduct(espresso)
	cart.AddProduct(latte)

	totals := cart.Totals()
	assert.Equal(t, "8.5", totals.Subtotal.String())
	assert.Equal(t, "0.68", totals.Tax.String())
	assert.Equal(t, "9.18", totals.Total.String())
}

func TestCart_EmptyTotalsAreZero(t *testing.T) {
	totals := NewCart(DefaultTaxRate).Totals()
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCart_ItemsAreCopies(t *testing.T) {
	cart := NewCart(DefaultTaxRate)
	cart.AddProduct(espresso)

	items := cart.Items()
	items[0].Quantity = 42

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestCart_ProductByBarcode(t *testing.T) {
	cart := NewCart(DefaultTaxRate)
	duplicate := domain.Product{ID: "prod_dup", Name: "Double Shot", Price: 3, SKU: "ZEN-DUP", Barcode: espresso.Barcode}
	cart.SetProducts([]domain.Product{espresso, latte, duplicate})

	got, ok := cart.ProductByBarcode("222222")
	require.True(t, ok)
	assert.Equal(t, latte.ID, got.ID)

	_, ok = cart.ProductByBarcode("000000")
	assert.False(t, ok)

	got, ok = cart.ProductByBarcode(espresso.Barcode)
	require.True(t, ok)
	assert.Equal(t, espresso.ID, got.ID, "duplicate barcodes resolve to the first product")
}

func TestCart_Subscribe(t *testing.T) {
	cart := NewCart(0.08)

	var snaps []Snapshot
	cancel := cart.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })

	cart.AddProduct(espresso)
	cart.AddProduct(latte)
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[1].Items, 2)
	assert.Equal(t, "6.48", snaps[1].Totals.Total.String())

	cancel()
	cart.Clear()
	assert.Len(t, snaps, 2, "cancelled observer must not be notified")
	assert.Equal(t, 0, cart.Len())
}
