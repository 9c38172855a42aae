package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/papertrade/internal/domain"
)

// Ledger is an append-only transaction log with a derived mapping from
// asset code to current balance. Every balance is the running sum of
// the signed quantity deltas of all transactions for that asset; the
// ledger never computes a balance any other way.
//
// The ledger does not enforce non-negativity. Funds checks happen at
// order placement, and simultaneous fills within one step can drive a
// balance below zero.
type Ledger struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	balances     map[string]decimal.Decimal
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]decimal.Decimal),
	}
}

// Add appends the transaction to the log and folds its quantity delta
// into the asset's balance, creating the asset entry at zero if absent.
// Add always succeeds.
func (l *Ledger) Add(tx domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = append(l.transactions, tx)
	l.balances[tx.Asset] = l.balances[tx.Asset].Add(tx.Qty)
}

// Balances returns a snapshot of the current balance per asset.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(l.balances))
	for asset, bal := range l.balances {
		out[asset] = bal
	}
	return out
}

// Transactions returns the full history in insertion order.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// HasSufficientFunds returns the current balance of the asset when it
// covers the required amount, and false otherwise. This is a
// point-in-time read: nothing is reserved or locked, so the balance may
// differ by the time it is spent.
func (l *Ledger) HasSufficientFunds(asset string, required decimal.Decimal) (decimal.Decimal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bal, ok := l.balances[asset]
	if !ok || bal.LessThan(required) {
		return decimal.Decimal{}, false
	}
	return bal, true
}
