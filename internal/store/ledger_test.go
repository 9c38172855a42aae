package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/papertrade/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedger_AddAccumulates(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(1, "BTC", dec("23456.8"), dec("1.000000000000000000001")))
	l.Add(domain.NewTransaction(2, "BTC", dec("23456.8"), dec("1.000000000000000000001")))

	got := l.Balances()["BTC"]
	if !got.Equal(dec("2.000000000000000000002")) {
		t.Errorf("BTC balance = %s, want 2.000000000000000000002", got)
	}
}

func TestLedger_NegativeDeltasSubtract(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(1, "BTC", dec("23456.8"), decimal.NewFromInt(10)))
	l.Add(domain.NewTransaction(2, "BTC", dec("23456.8"), decimal.NewFromInt(-3)))
	l.Add(domain.NewTransaction(3, "BTC", dec("23456.8"), decimal.NewFromInt(-3)))

	got := l.Balances()["BTC"]
	if !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("BTC balance = %s, want 4", got)
	}
}

func TestLedger_MultiAsset(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(1, "BTC", dec("23456.8"), decimal.NewFromInt(10)))
	l.Add(domain.NewTransaction(2, "ETH", dec("1340.0"), decimal.NewFromInt(10)))
	l.Add(domain.NewTransaction(3, "ETH", dec("1340.0"), decimal.NewFromInt(30)))
	l.Add(domain.NewTransaction(4, "BTC", dec("23456.8"), decimal.NewFromInt(20)))
	l.Add(domain.NewTransaction(5, "ETH", dec("1340.0"), decimal.NewFromInt(-10)))
	l.Add(domain.NewTransaction(6, "BTC", dec("23456.8"), decimal.NewFromInt(-10)))

	balances := l.Balances()
	if !balances["BTC"].Equal(decimal.NewFromInt(20)) {
		t.Errorf("BTC balance = %s, want 20", balances["BTC"])
	}
	if !balances["ETH"].Equal(decimal.NewFromInt(30)) {
		t.Errorf("ETH balance = %s, want 30", balances["ETH"])
	}
}

func TestLedger_BalanceMayGoNegative(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(1, "USDT", decimal.Zero, decimal.NewFromInt(-5)))

	got := l.Balances()["USDT"]
	if !got.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("USDT balance = %s, want -5", got)
	}
}

func TestLedger_TransactionsInsertionOrder(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(3, "BTC", decimal.Zero, decimal.NewFromInt(1)))
	l.Add(domain.NewTransaction(1, "ETH", decimal.Zero, decimal.NewFromInt(2)))
	l.Add(domain.NewTransaction(2, "BTC", decimal.Zero, decimal.NewFromInt(3)))

	txs := l.Transactions()
	if len(txs) != 3 {
		t.Fatalf("len(txs) = %d, want 3", len(txs))
	}
	// Insertion order, not timestamp order.
	if txs[0].TS != 3 || txs[1].TS != 1 || txs[2].TS != 2 {
		t.Errorf("transactions out of insertion order: %v", txs)
	}
}

func TestLedger_HasSufficientFunds(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(0, "XRP", decimal.Zero, decimal.NewFromInt(10000)))
	l.Add(domain.NewTransaction(0, "ETH", decimal.Zero, decimal.NewFromInt(10)))

	if bal, ok := l.HasSufficientFunds("XRP", decimal.NewFromInt(9000)); !ok || !bal.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("XRP 9000: got (%s, %v), want (10000, true)", bal, ok)
	}
	if _, ok := l.HasSufficientFunds("XRP", decimal.NewFromInt(12000)); ok {
		t.Error("XRP 12000: expected insufficient")
	}
	if _, ok := l.HasSufficientFunds("ETH", decimal.NewFromInt(12000)); ok {
		t.Error("ETH 12000: expected insufficient")
	}
	if _, ok := l.HasSufficientFunds("DOGE", decimal.NewFromInt(1)); ok {
		t.Error("unknown asset: expected insufficient")
	}
	// Exact balance is sufficient.
	if _, ok := l.HasSufficientFunds("ETH", decimal.NewFromInt(10)); !ok {
		t.Error("ETH 10: expected sufficient at exact balance")
	}
}

func TestLedger_SnapshotsAreCopies(t *testing.T) {
	l := NewLedger()
	l.Add(domain.NewTransaction(0, "BTC", decimal.Zero, decimal.NewFromInt(1)))

	balances := l.Balances()
	balances["BTC"] = decimal.NewFromInt(999)

	if got := l.Balances()["BTC"]; !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("mutating the snapshot leaked into the ledger: %s", got)
	}
}
