// Package service multiplexes independent simulator instances behind
// opaque identifiers and serializes access to each one.
package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/engine"
	"github.com/efreitasn/papertrade/internal/feed"
)

// KlineSource loads candle history for a symbol. Satisfied by
// feed.Client.
type KlineSource interface {
	Klines(symbol, interval string, limit int) ([]domain.Candle, error)
}

// instance pairs an exchange with the mutex that serializes access to
// it. The exchange itself has no internal synchronization; no state is
// shared between instances.
type instance struct {
	mu sync.Mutex
	ex *engine.Exchange
}

// Registry owns all simulator instances. Every operation addresses an
// instance by the opaque id returned from Create and fails with
// domain.ErrUnknownInstance when the id does not exist.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*instance
	klines    KlineSource
}

// NewRegistry creates an empty Registry backed by the given kline
// source.
func NewRegistry(klines KlineSource) *Registry {
	return &Registry{
		instances: make(map[string]*instance),
		klines:    klines,
	}
}

// Create starts a fresh simulator instance and returns its id.
func (r *Registry) Create() string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[id] = &instance{ex: engine.New()}
	return id
}

func (r *Registry) get(id string) (*instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instances[id]
	if !ok {
		return nil, domain.ErrUnknownInstance
	}
	return inst, nil
}

// AddCapital deposits qty of an asset into the instance's ledger.
func (r *Registry) AddCapital(id, asset string, qty decimal.Decimal) error {
	inst, err := r.get(id)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.ex.AddCapital(asset, qty)
	return nil
}

// AttachFeed loads kline history for the symbol through the kline
// source and attaches it to the instance as that pair's price feed.
func (r *Registry) AttachFeed(id, symbol, interval string, limit int) error {
	inst, err := r.get(id)
	if err != nil {
		return err
	}

	candles, err := r.klines.Klines(symbol, interval, limit)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.ex.AddFeed(symbol, feed.New(candles))
	return nil
}

// AttachCandles attaches caller-supplied candles as the pair's price
// feed, bypassing the kline source. Used for synthetic data.
func (r *Registry) AttachCandles(id, symbol string, candles []domain.Candle) error {
	inst, err := r.get(id)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.ex.AddFeed(symbol, feed.New(candles))
	return nil
}

// PlaceOrder places an order on the instance.
func (r *Registry) PlaceOrder(id, pair string, price *decimal.Decimal, qty decimal.Decimal, side domain.OrderSide, typ domain.OrderType) (domain.Order, error) {
	inst, err := r.get(id)
	if err != nil {
		return domain.Order{}, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.ex.PlaceOrder(pair, price, qty, side, typ)
}

// Step advances the instance's simulated time by one candle per pair
// with pending orders.
func (r *Registry) Step(id string) error {
	inst, err := r.get(id)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.ex.Step()
}

// Balances returns the instance's balance snapshot.
func (r *Registry) Balances(id string) (map[string]decimal.Decimal, error) {
	inst, err := r.get(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.ex.Balances(), nil
}

// PendingOrders returns the instance's pending orders per pair.
func (r *Registry) PendingOrders(id string) (map[string][]domain.Order, error) {
	inst, err := r.get(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.ex.PendingOrders(), nil
}

// Transactions returns the instance's full ledger history.
func (r *Registry) Transactions(id string) ([]domain.Transaction, error) {
	inst, err := r.get(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.ex.Transactions(), nil
}
