package domain

import "time"

// Transaction is an immutable record of a completed sale.
type Transaction struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	Total       float64    `json:"total"`
	Timestamp   int64      `json:"timestamp"` // epoch millis
	CashierID   string     `json:"cashierId,omitempty"`
	CashierName string     `json:"cashierName,omitempty"`
}

func (t *Transaction) RecordID() string      { return t.ID }
func (t *Transaction) SetRecordID(id string) { t.ID = id }

// Time returns the transaction timestamp as a UTC time.
func (t Transaction) Time() time.Time {
	return time.UnixMilli(t.Timestamp).UTC()
}

// ItemCount is the number of units sold, summed across lines.
func (t Transaction) ItemCount() int {
	n := 0
	for _, item := range t.Items {
		n += item.Quantity
	}
	return n
}

// CloneItems copies the line slice so the result shares no backing array with
// the input.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
