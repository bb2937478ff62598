package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"zenith-pos/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// ExportRow is one CSV line of the transaction export.
type ExportRow struct {
	ID        string `csv:"id"`
	Timestamp string `csv:"timestamp"`
	Cashier   string `csv:"cashier"`
	Items     int    `csv:"items"`
	Total     string `csv:"total"`
}

// ExportRows maps transactions to CSV rows in the given order.
func ExportRows(txs []domain.Transaction) []*ExportRow {
	rows := make([]*ExportRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, &ExportRow{
			ID:        cellText(tx.ID),
			Timestamp: tx.Time().Format(time.RFC3339),
			Cashier:   cellText(tx.CashierName),
			Items:     tx.ItemCount(),
			Total:     decimal.NewFromFloat(tx.Total).StringFixed(2),
		})
	}
	return rows
}

// cellText quotes values a spreadsheet would evaluate as a formula.
func cellText(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}

// WriteCSV writes txs as CSV with a header row.
func WriteCSV(w io.Writer, txs []domain.Transaction) error {
	if err := gocsv.Marshal(ExportRows(txs), w); err != nil {
		return fmt.Errorf("failed to write transaction csv: %w", err)
	}
	return nil
}
