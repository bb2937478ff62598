// Package report aggregates transaction history into sales figures.
package report

import (
	"sort"

	"zenith-pos/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// DailyRevenue is the revenue booked on one UTC calendar day.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

// Summary is the sales report served to back-office clients. Money values are
// rounded to cents.
type Summary struct {
	TotalRevenue   float64        `json:"totalRevenue"`
	TotalSales     int            `json:"totalSales"`
	TotalItemsSold int            `json:"totalItemsSold"`
	AverageSale    float64        `json:"averageSale"`
	MedianSale     float64        `json:"medianSale"`
	RevenueByDay   []DailyRevenue `json:"revenueByDay"`
}

// Summarize builds a Summary over txs. An empty history yields a zero report.
func Summarize(txs []domain.Transaction) (Summary, error) {
	summary := Summary{RevenueByDay: []DailyRevenue{}}
	if len(txs) == 0 {
		return summary, nil
	}

	revenue := decimal.Zero
	totals := make(stats.Float64Data, 0, len(txs))
	byDay := make(map[string]*struct {
		revenue decimal.Decimal
		sales   int
	})

	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Total)
		revenue = revenue.Add(amount)
		totals = append(totals, tx.Total)
		summary.TotalItemsSold += tx.ItemCount()

		day := tx.Time().Format(dayLayout)
		bucket, ok := byDay[day]
		if !ok {
			bucket = &struct {
				revenue decimal.Decimal
				sales   int
			}{revenue: decimal.Zero}
			byDay[day] = bucket
		}
		bucket.revenue = bucket.revenue.Add(amount)
		bucket.sales++
	}

	mean, err := totals.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := totals.Median()
	if err != nil {
		return Summary{}, err
	}

	summary.TotalRevenue = cents(revenue)
	summary.TotalSales = len(txs)
	summary.AverageSale = cents(decimal.NewFromFloat(mean))
	summary.MedianSale = cents(decimal.NewFromFloat(median))

	for day, bucket := range byDay {
		summary.RevenueByDay = append(summary.RevenueByDay, DailyRevenue{
			Date:    day,
			Revenue: cents(bucket.revenue),
			Sales:   bucket.sales,
		})
	}
	sort.Slice(summary.RevenueByDay, func(i, j int) bool {
		return summary.RevenueByDay[i].Date < summary.RevenueByDay[j].Date
	})

	return summary, nil
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
