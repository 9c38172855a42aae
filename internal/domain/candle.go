package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Candle is a single OHLC kline as delivered by the market-data
// provider. Price and volume fields are decimal strings, timestamps
// are integer milliseconds. The core treats candles as read-only.
type Candle struct {
	OpenTime        int64  `json:"open_time"`
	Open            string `json:"open"`
	High            string `json:"high"`
	Low             string `json:"low"`
	Close           string `json:"close"`
	Volume          string `json:"volume"`
	CloseTime       int64  `json:"close_time"`
	QuoteVolume     string `json:"quote_volume"`
	Trades          int64  `json:"trades"`
	TakerBuyVolume  string `json:"taker_buy_volume"`
	TakerSellVolume string `json:"taker_sell_volume"`
	Ignore          string `json:"ignore"`
}

// LowPrice parses the candle's low as a decimal.
func (c Candle) LowPrice() (decimal.Decimal, error) {
	return parsePrice("low", c.Low)
}

// HighPrice parses the candle's high as a decimal.
func (c Candle) HighPrice() (decimal.Decimal, error) {
	return parsePrice("high", c.High)
}

func parsePrice(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q: %w", field, value, ErrInvalidPrice)
	}
	return d, nil
}
