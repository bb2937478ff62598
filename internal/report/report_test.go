package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"zenith-pos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(id string, total float64, qty int, at time.Time) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Items:       []domain.CartItem{{Product: domain.Product{ID: "p", Name: "Latte", Price: 3.5}, Quantity: qty}},
		Total:       total,
		Timestamp:   at.UnixMilli(),
		CashierName: "Cashier",
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalSales)
	assert.NotNil(t, summary.RevenueByDay)
	assert.Empty(t, summary.RevenueByDay)
}

func TestSummarize_Figures(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	txs := []domain.Transaction{
		sale("t3", 3.78, 1, day2),
		sale("t1", 9.18, 3, day1),
		sale("t2", 1.10, 2, day1),
	}

	summary, err := Summarize(txs)
	require.NoError(t, err)

	assert.Equal(t, 14.06, summary.TotalRevenue)
	assert.Equal(t, 3, summary.TotalSales)
	assert.Equal(t, 6, summary.TotalItemsSold)
	assert.Equal(t, 4.69, summary.AverageSale)
	assert.Equal(t, 3.78, summary.MedianSale)
	assert.Equal(t, []DailyRevenue{
		{Date: "2026-03-01", Revenue: 10.28, Sales: 2},
		{Date: "2026-03-02", Revenue: 3.78, Sales: 1},
	}, summary.RevenueByDay)
}

// Feature: pos-core, Property 7: Daily revenue partitions total revenue
func TestProperty_DailyRevenueSumsToTotal(t *testing.T) {
	properties := gopter.NewProperties(nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("revenue by day sums to total revenue and sales count", prop.ForAll(
		func(cents []int, hours []int) bool {
			if len(hours) == 0 {
				hours = []int{0}
			}
			txs := make([]domain.Transaction, len(cents))
			for i, c := range cents {
				txs[i] = sale("t", float64(c)/100, 1, base.Add(time.Duration(hours[i%len(hours)])*time.Hour))
			}
			summary, err := Summarize(txs)
			if err != nil {
				return false
			}
			var revenueCents, sales int
			for i, d := range summary.RevenueByDay {
				if i > 0 && summary.RevenueByDay[i-1].Date >= d.Date {
					return false
				}
				revenueCents += int(d.Revenue*100 + 0.5)
				sales += d.Sales
			}
			return revenueCents == int(summary.TotalRevenue*100+0.5) && sales == len(cents)
		},
		gen.SliceOf(gen.IntRange(0, 50000)),
		gen.SliceOf(gen.IntRange(0, 24*30)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestWriteCSV(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer

	err := WriteCSV(&buf, []domain.Transaction{sale("t1", 9.18, 3, at), sale("t2", 2.5, 1, at)})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,timestamp,cashier,items,total", lines[0])
	assert.Equal(t, "t1,2026-03-01T09:30:00Z,Cashier,3,9.18", lines[1])
	assert.Equal(t, "t2,2026-03-01T09:30:00Z,Cashier,1,2.50", lines[2])
}

func TestWriteCSV_FormulaCellsAreQuoted(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	names := map[string]string{
		"=HYPERLINK(\"x\")": "'=HYPERLINK(\"x\")",
		"+1":                 "'+1",
		"-2":                 "'-2",
		"@SUM(A1)":           "'@SUM(A1)",
		"Cashier":            "Cashier",
		"":                   "",
	}
	for name, want := range names {
		tx := sale("t1", 1, 1, at)
		tx.CashierName = name

		rows := ExportRows([]domain.Transaction{tx})
		require.Len(t, rows, 1)
		assert.Equal(t, want, rows[0].Cashier)
	}

	var buf bytes.Buffer
	tx := sale("=t1", 1, 1, at)
	tx.CashierName = "=1+1"
	require.NoError(t, WriteCSV(&buf, []domain.Transaction{tx}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "'=t1,2026-03-01T09:30:00Z,'=1+1,1,1.00", lines[1])
}
