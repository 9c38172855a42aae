package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCandlePriceParsing(t *testing.T) {
	c := Candle{
		OpenTime:  1626578400000,
		Open:      "1.0000000",
		High:      "2.0000000",
		Low:       "0.08000000",
		Close:     "0.15000000",
		CloseTime: 1626578500000,
	}

	low, err := c.LowPrice()
	if err != nil {
		t.Fatalf("LowPrice: unexpected error: %v", err)
	}
	if !low.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("low = %s, want 0.08", low)
	}

	high, err := c.HighPrice()
	if err != nil {
		t.Fatalf("HighPrice: unexpected error: %v", err)
	}
	if !high.Equal(decimal.NewFromInt(2)) {
		t.Errorf("high = %s, want 2", high)
	}
}

func TestCandlePriceParsing_Malformed(t *testing.T) {
	c := Candle{High: "not-a-price", Low: ""}

	if _, err := c.HighPrice(); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("HighPrice: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := c.LowPrice(); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("LowPrice: expected ErrInvalidPrice, got %v", err)
	}
}
