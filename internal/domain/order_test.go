package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewOrder(t *testing.T) {
	price := decimal.RequireFromString("0.0093")
	o := NewOrder(1, "ETHBTC", &price, decimal.NewFromInt(2), OrderSideBuy, OrderTypeLimit)

	if o.ID != 1 {
		t.Errorf("ID = %d, want 1", o.ID)
	}
	if o.Pair != "ETHBTC" {
		t.Errorf("Pair = %q, want ETHBTC", o.Pair)
	}
	if o.Side != OrderSideBuy || o.Type != OrderTypeLimit {
		t.Errorf("side/type = %s/%s, want buy/limit", o.Side, o.Type)
	}
	if o.Price == nil || !o.Price.Equal(price) {
		t.Errorf("Price = %v, want %s", o.Price, price)
	}
	if o.Status != OrderStatusPending {
		t.Errorf("Status = %s, want pending", o.Status)
	}
	if o.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestNewOrder_MarketHasNoPrice(t *testing.T) {
	o := NewOrder(2, "BTCUSDT", nil, decimal.NewFromInt(1), OrderSideSell, OrderTypeMarket)
	if o.Price != nil {
		t.Errorf("Price = %v, want nil", o.Price)
	}
}

func TestMarkFilled_Once(t *testing.T) {
	o := NewOrder(3, "BTCUSDT", nil, decimal.NewFromInt(1), OrderSideBuy, OrderTypeMarket)

	o.MarkFilled()
	if o.Status != OrderStatusFilled {
		t.Fatalf("Status = %s, want filled", o.Status)
	}

	// A second call must not transition anything.
	o.MarkFilled()
	if o.Status != OrderStatusFilled {
		t.Errorf("Status = %s after second MarkFilled, want filled", o.Status)
	}
}

func TestMarkFilled_OnlyFromPending(t *testing.T) {
	o := NewOrder(4, "BTCUSDT", nil, decimal.NewFromInt(1), OrderSideBuy, OrderTypeMarket)
	o.Status = OrderStatusPartiallyFilled

	o.MarkFilled()
	if o.Status != OrderStatusPartiallyFilled {
		t.Errorf("Status = %s, want partially_filled untouched", o.Status)
	}
}
