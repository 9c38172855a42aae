package domain

import "github.com/shopspring/decimal"

// Transaction is one leg of a balance change: a signed quantity delta
// for a single asset, stamped with the simulated time and the reference
// price at which the change happened. Transactions are never mutated or
// deleted once created; the full sequence is retained for audit.
type Transaction struct {
	TS    int64 // milliseconds
	Asset string
	Price decimal.Decimal
	Qty   decimal.Decimal // signed
}

// NewTransaction creates a transaction record.
func NewTransaction(ts int64, asset string, price, qty decimal.Decimal) Transaction {
	return Transaction{
		TS:    ts,
		Asset: asset,
		Price: price,
		Qty:   qty,
	}
}
