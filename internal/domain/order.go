package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes limit orders from market orders.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// OrderSide indicates whether an order buys or sells the base asset.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus represents the lifecycle state of an order.
// partially_filled is reserved for future partial-fill support; the
// matching engine only ever transitions pending → filled.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
)

// Order represents a trading intent placed against the simulator.
// Price and Qty are immutable after creation; only Status changes,
// and only the matching engine changes it.
type Order struct {
	ID        int64
	CreatedAt time.Time
	Pair      string
	Side      OrderSide
	Type      OrderType
	Price     *decimal.Decimal // nil for market orders
	Qty       decimal.Decimal
	Status    OrderStatus
	// FilledPercent accompanies partially_filled. Always zero today.
	FilledPercent int
}

// NewOrder creates a pending order. The id must come from the owning
// engine's allocator; ids are never reused within an engine.
func NewOrder(id int64, pair string, price *decimal.Decimal, qty decimal.Decimal, side OrderSide, typ OrderType) *Order {
	return &Order{
		ID:        id,
		CreatedAt: time.Now(),
		Pair:      pair,
		Side:      side,
		Type:      typ,
		Price:     price,
		Qty:       qty,
		Status:    OrderStatusPending,
	}
}

// MarkFilled transitions the order from pending to filled. The
// transition happens at most once; calls on a non-pending order are
// no-ops.
func (o *Order) MarkFilled() {
	if o.Status == OrderStatusPending {
		o.Status = OrderStatusFilled
	}
}
