// Package engine implements the order-matching engine: it evaluates
// pending orders against price candles and settles fills into the
// ledger.
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/feed"
	"github.com/efreitasn/papertrade/internal/store"
)

// Exchange simulates a single exchange account: pending orders per
// trading pair, a ledger of balances, and one price feed per pair.
// Placing an order never moves funds; funds move only when Step fills
// the order against a candle.
//
// An Exchange is not safe for concurrent use. Callers that share an
// instance across goroutines must serialize access externally (the
// service registry holds one mutex per instance).
type Exchange struct {
	pending map[string][]*domain.Order
	ledger  *store.Ledger
	feeds   map[string]*feed.Feed
	nextID  int64
}

// New creates an Exchange with an empty ledger and no feeds.
func New() *Exchange {
	return &Exchange{
		pending: make(map[string][]*domain.Order),
		ledger:  store.NewLedger(),
		feeds:   make(map[string]*feed.Feed),
		nextID:  1,
	}
}

// AddCapital deposits qty of an asset into the ledger. Capital enters
// as an ordinary transaction at simulated time zero with reference
// price zero, so balances stay derivable from the log alone.
func (e *Exchange) AddCapital(asset string, qty decimal.Decimal) {
	e.ledger.Add(domain.NewTransaction(0, asset, decimal.Zero, qty))
}

// AddFeed attaches the price feed used to advance simulated time for
// the pair, replacing any previous feed.
func (e *Exchange) AddFeed(pair string, f *feed.Feed) {
	e.feeds[pair] = f
}

// Balances returns a snapshot of the current balance per asset.
func (e *Exchange) Balances() map[string]decimal.Decimal {
	return e.ledger.Balances()
}

// Transactions returns the full ledger history in insertion order.
func (e *Exchange) Transactions() []domain.Transaction {
	return e.ledger.Transactions()
}

// PendingOrders returns a copy of the pending orders per pair, each
// list in insertion order.
func (e *Exchange) PendingOrders() map[string][]domain.Order {
	out := make(map[string][]domain.Order, len(e.pending))
	for pair, orders := range e.pending {
		list := make([]domain.Order, len(orders))
		for i, o := range orders {
			list[i] = *o
		}
		out[pair] = list
	}
	return out
}

// PlaceOrder validates and registers a new order. Limit orders require
// a price and are checked against the ledger: a buy needs price×qty of
// the quote asset, a sell needs qty of the base asset. Market orders
// carry no price and bypass the funds check entirely — nothing is ever
// reserved for them.
//
// The check is advisory: funds are not locked, and fill-time settlement
// does not re-validate.
func (e *Exchange) PlaceOrder(pair string, price *decimal.Decimal, qty decimal.Decimal, side domain.OrderSide, typ domain.OrderType) (domain.Order, error) {
	if !qty.IsPositive() {
		return domain.Order{}, &domain.ValidationError{Message: "quantity must be positive"}
	}
	switch typ {
	case domain.OrderTypeLimit:
		if price == nil {
			return domain.Order{}, &domain.ValidationError{Message: "limit orders require a price"}
		}
	case domain.OrderTypeMarket:
		if price != nil {
			return domain.Order{}, &domain.ValidationError{Message: "market orders must not carry a price"}
		}
	default:
		return domain.Order{}, &domain.ValidationError{Message: fmt.Sprintf("unknown order type: %s", typ)}
	}

	base, quote, err := domain.ResolveAssetPair(pair)
	if err != nil {
		return domain.Order{}, err
	}

	if price != nil {
		switch side {
		case domain.OrderSideBuy:
			if _, ok := e.ledger.HasSufficientFunds(quote, price.Mul(qty)); !ok {
				return domain.Order{}, fmt.Errorf("%s buy needs %s %s: %w", pair, price.Mul(qty), quote, domain.ErrInsufficientFunds)
			}
		case domain.OrderSideSell:
			if _, ok := e.ledger.HasSufficientFunds(base, qty); !ok {
				return domain.Order{}, fmt.Errorf("%s sell needs %s %s: %w", pair, qty, base, domain.ErrInsufficientFunds)
			}
		default:
			return domain.Order{}, &domain.ValidationError{Message: fmt.Sprintf("unknown order side: %s", side)}
		}
	}

	order := domain.NewOrder(e.nextID, pair, price, qty, side, typ)
	e.nextID++
	e.pending[pair] = append(e.pending[pair], order)
	return *order, nil
}

// PlaceLimitBuy places a limit buy order.
func (e *Exchange) PlaceLimitBuy(pair string, price, qty decimal.Decimal) (domain.Order, error) {
	return e.PlaceOrder(pair, &price, qty, domain.OrderSideBuy, domain.OrderTypeLimit)
}

// PlaceLimitSell places a limit sell order.
func (e *Exchange) PlaceLimitSell(pair string, price, qty decimal.Decimal) (domain.Order, error) {
	return e.PlaceOrder(pair, &price, qty, domain.OrderSideSell, domain.OrderTypeLimit)
}

// PlaceMarketBuy places a market buy order.
func (e *Exchange) PlaceMarketBuy(pair string, qty decimal.Decimal) (domain.Order, error) {
	return e.PlaceOrder(pair, nil, qty, domain.OrderSideBuy, domain.OrderTypeMarket)
}

// PlaceMarketSell places a market sell order.
func (e *Exchange) PlaceMarketSell(pair string, qty decimal.Decimal) (domain.Order, error) {
	return e.PlaceOrder(pair, nil, qty, domain.OrderSideSell, domain.OrderTypeMarket)
}

// Step advances simulated time by one candle per pair that has pending
// orders, evaluating every pending order on that pair against the
// candle. All resulting transactions are collected first; only when the
// whole evaluation succeeds are they applied to the ledger and the
// filled orders removed. On error the ledger and order lists are left
// untouched — candles pulled before the failure stay consumed, since
// feeds have no rewind.
//
// Fill rules use strict inequalities: a buy fills when the candle low
// trades below the order price, a sell when the candle high trades
// above it. A candle that only touches the exact price does not fill.
// Fills within a step do not re-check funds against each other, so
// balances can legitimately go negative here.
func (e *Exchange) Step() error {
	// Sorted pair order keeps multi-pair runs reproducible.
	pairs := make([]string, 0, len(e.pending))
	for pair := range e.pending {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	var txs []domain.Transaction
	var filled []*domain.Order

	for _, pair := range pairs {
		f, ok := e.feeds[pair]
		if !ok {
			return fmt.Errorf("%s: %w", pair, domain.ErrNoCandleAvailable)
		}
		candle, ok := f.Next()
		if !ok {
			return fmt.Errorf("%s: %w", pair, domain.ErrNoCandleAvailable)
		}

		base, quote, err := domain.ResolveAssetPair(pair)
		if err != nil {
			return err
		}

		for _, order := range e.pending[pair] {
			if order.Price == nil {
				// No market-clearing rule exists; a priceless order
				// cannot be evaluated against the candle.
				return fmt.Errorf("order %d on %s: %w", order.ID, pair, domain.ErrMissingOrderPrice)
			}
			price := *order.Price

			switch order.Side {
			case domain.OrderSideBuy:
				low, err := candle.LowPrice()
				if err != nil {
					return fmt.Errorf("%s: %w", pair, err)
				}
				if low.LessThan(price) {
					txs = append(txs,
						domain.NewTransaction(candle.CloseTime, base, price, order.Qty),
						domain.NewTransaction(candle.CloseTime, quote, price, order.Qty.Mul(price).Neg()),
					)
					filled = append(filled, order)
				}
			case domain.OrderSideSell:
				high, err := candle.HighPrice()
				if err != nil {
					return fmt.Errorf("%s: %w", pair, err)
				}
				if high.GreaterThan(price) {
					txs = append(txs,
						domain.NewTransaction(candle.CloseTime, base, price, order.Qty.Neg()),
						domain.NewTransaction(candle.CloseTime, quote, price, order.Qty.Mul(price)),
					)
					filled = append(filled, order)
				}
			}
		}
	}

	// Commit phase: apply every buffered transaction, then drop filled
	// orders by filtering so the remainder keeps its relative order.
	for _, tx := range txs {
		e.ledger.Add(tx)
	}
	if len(filled) == 0 {
		return nil
	}

	filledIDs := make(map[int64]bool, len(filled))
	for _, o := range filled {
		o.MarkFilled()
		filledIDs[o.ID] = true
	}
	for pair, orders := range e.pending {
		kept := make([]*domain.Order, 0, len(orders))
		for _, o := range orders {
			if !filledIDs[o.ID] {
				kept = append(kept, o)
			}
		}
		if len(kept) == 0 {
			delete(e.pending, pair)
		} else {
			e.pending[pair] = kept
		}
	}
	return nil
}
