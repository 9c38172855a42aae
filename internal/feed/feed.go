// Package feed supplies OHLC candles to the matching engine: an
// in-memory cursor over a finite candle sequence, and a client that
// loads such sequences from the market-data provider with an on-disk
// cache.
package feed

import "github.com/efreitasn/papertrade/internal/domain"

// Feed replays a fixed, pre-loaded, ordered candle sequence. Next
// advances an internal cursor and reports exhaustion; there is no
// rewind — restarting means supplying the sequence again.
type Feed struct {
	cursor  int
	candles []domain.Candle
}

// New creates a Feed over the given candles.
func New(candles []domain.Candle) *Feed {
	return &Feed{candles: candles}
}

// SetCandles replaces the sequence and resets the cursor.
func (f *Feed) SetCandles(candles []domain.Candle) {
	f.candles = candles
	f.cursor = 0
}

// Next returns the next candle in the sequence, or false once the
// sequence is exhausted.
func (f *Feed) Next() (domain.Candle, bool) {
	if f.cursor >= len(f.candles) {
		return domain.Candle{}, false
	}
	c := f.candles[f.cursor]
	f.cursor++
	return c, true
}

// Remaining reports how many candles have not been consumed yet.
func (f *Feed) Remaining() int {
	return len(f.candles) - f.cursor
}
