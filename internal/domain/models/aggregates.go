package models

import "time"

// CounterpartySort selects the ordering of grouped counterparty totals.
type CounterpartySort int

const (
	// SortByQuantity orders by quantity desc, then amount desc (dashboard
	// ranking).
	SortByQuantity CounterpartySort = iota
	// SortByAmount orders by amount desc (monthly consumption report).
	SortByAmount
)

// ScalarTotals is the single-row result of a scalar totals aggregation.
// A zero value stands in for "no matching records".
type ScalarTotals struct {
	TotalQuantity    float64 `bson:"totalQuantity"`
	TotalAmount      float64 `bson:"totalAmount"`
	TransactionCount int     `bson:"transactionCount"`
}

// Stat converts the aggregate into its response shape.
func (t ScalarTotals) Stat() Stat {
	return Stat{
		Quantity:     t.TotalQuantity,
		Amount:       t.TotalAmount,
		Transactions: t.TransactionCount,
	}
}

// CounterpartyTotals is one grouped-by-counterparty aggregation row. Mobile
// is the normalized phone the group was keyed on; BuyerName is the first-seen
// display name from the underlying transactions.
type CounterpartyTotals struct {
	Mobile           string  `bson:"_id"`
	BuyerName        string  `bson:"buyerName"`
	TotalQuantity    float64 `bson:"totalQuantity"`
	TotalAmount      float64 `bson:"totalAmount"`
	TransactionCount int     `bson:"transactionCount"`
}

// BucketTotals is one grouped-by-date-key aggregation row. DateKey is
// YYYY-MM-DD for day buckets and YYYY-MM for month buckets.
type BucketTotals struct {
	DateKey       string  `bson:"_id"`
	TotalQuantity float64 `bson:"totalQuantity"`
	TotalAmount   float64 `bson:"totalAmount"`
}

// TransactionDetail is one per-transaction export row. Mobile carries the
// normalized counterparty phone.
type TransactionDetail struct {
	Date          time.Time `bson:"date"`
	Buyer         string    `bson:"buyer"`
	Mobile        string    `bson:"normalizedBuyerPhone"`
	Quantity      float64   `bson:"quantity"`
	PricePerLiter float64   `bson:"pricePerLiter"`
	TotalAmount   float64   `bson:"totalAmount"`
}
