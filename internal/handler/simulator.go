package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/service"
)

// SimulatorHandler handles HTTP requests for simulator endpoints.
type SimulatorHandler struct {
	registry *service.Registry
}

// NewSimulatorHandler creates a new SimulatorHandler.
func NewSimulatorHandler(registry *service.Registry) *SimulatorHandler {
	return &SimulatorHandler{registry: registry}
}

// createResponse is the JSON response for POST /simulators.
type createResponse struct {
	SimulatorID string `json:"simulator_id"`
}

// capitalRequest is the JSON request body for POST /simulators/{id}/capital.
type capitalRequest struct {
	Asset    string `json:"asset"`
	Quantity string `json:"quantity"`
}

// feedRequest is the JSON request body for POST /simulators/{id}/feeds.
// Either interval+limit (provider fetch) or candles (synthetic data)
// must be supplied.
type feedRequest struct {
	Symbol   string          `json:"symbol"`
	Interval string          `json:"interval"`
	Limit    int             `json:"limit"`
	Candles  []domain.Candle `json:"candles"`
}

// orderRequest is the JSON request body for POST /simulators/{id}/orders.
type orderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Type     string  `json:"type"`
	Price    *string `json:"price"`
	Quantity string  `json:"quantity"`
}

// orderResponse is the JSON response for a placed or pending order.
// Prices and quantities are decimal strings.
type orderResponse struct {
	OrderID   int64   `json:"order_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Type      string  `json:"type"`
	Price     *string `json:"price"`
	Quantity  string  `json:"quantity"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// transactionResponse is a single ledger transaction.
type transactionResponse struct {
	TS    int64  `json:"ts"`
	Asset string `json:"asset"`
	Price string `json:"price"`
	Qty   string `json:"qty"`
}

// Create handles POST /simulators.
func (h *SimulatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.registry.Create()
	WriteJSON(w, http.StatusCreated, createResponse{SimulatorID: id})
}

// AddCapital handles POST /simulators/{simulator_id}/capital.
func (h *SimulatorHandler) AddCapital(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	var req capitalRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Asset == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset is required")
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "quantity must be a decimal string")
		return
	}

	if err := h.registry.AddCapital(id, req.Asset, qty); err != nil {
		mapSimulatorError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachFeed handles POST /simulators/{simulator_id}/feeds.
func (h *SimulatorHandler) AttachFeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	var req feedRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "symbol is required")
		return
	}

	var err error
	if len(req.Candles) > 0 {
		err = h.registry.AttachCandles(id, req.Symbol, req.Candles)
	} else {
		if req.Interval == "" || req.Limit <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "interval and a positive limit are required when no candles are supplied")
			return
		}
		err = h.registry.AttachFeed(id, req.Symbol, req.Interval, req.Limit)
	}
	if err != nil {
		mapSimulatorError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaceOrder handles POST /simulators/{simulator_id}/orders.
func (h *SimulatorHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	side := domain.OrderSide(req.Side)
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		WriteError(w, http.StatusBadRequest, "validation_error", "side must be 'buy' or 'sell'")
		return
	}
	typ := domain.OrderType(req.Type)
	if typ != domain.OrderTypeLimit && typ != domain.OrderTypeMarket {
		WriteError(w, http.StatusBadRequest, "validation_error", "type must be 'limit' or 'market'")
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "quantity must be a decimal string")
		return
	}
	var price *decimal.Decimal
	if req.Price != nil {
		p, err := decimal.NewFromString(*req.Price)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "price must be a decimal string")
			return
		}
		price = &p
	}

	order, err := h.registry.PlaceOrder(id, req.Symbol, price, qty, side, typ)
	if err != nil {
		mapSimulatorError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// Step handles POST /simulators/{simulator_id}/step.
func (h *SimulatorHandler) Step(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	if err := h.registry.Step(id); err != nil {
		mapSimulatorError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "stepped"})
}

// GetBalances handles GET /simulators/{simulator_id}/balances.
func (h *SimulatorHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	balances, err := h.registry.Balances(id)
	if err != nil {
		mapSimulatorError(w, err)
		return
	}

	out := make(map[string]string, len(balances))
	for asset, bal := range balances {
		out[asset] = bal.String()
	}
	WriteJSON(w, http.StatusOK, map[string]any{"balances": out})
}

// ListOrders handles GET /simulators/{simulator_id}/orders.
func (h *SimulatorHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	pending, err := h.registry.PendingOrders(id)
	if err != nil {
		mapSimulatorError(w, err)
		return
	}

	out := make(map[string][]orderResponse, len(pending))
	for pair, orders := range pending {
		list := make([]orderResponse, len(orders))
		for i, o := range orders {
			list[i] = buildOrderResponse(o)
		}
		out[pair] = list
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": out})
}

// ListTransactions handles GET /simulators/{simulator_id}/transactions.
func (h *SimulatorHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "simulator_id")

	txs, err := h.registry.Transactions(id)
	if err != nil {
		mapSimulatorError(w, err)
		return
	}

	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = transactionResponse{
			TS:    tx.TS,
			Asset: tx.Asset,
			Price: tx.Price.String(),
			Qty:   tx.Qty.String(),
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

// buildOrderResponse converts a domain order to its response shape.
func buildOrderResponse(o domain.Order) orderResponse {
	var price *string
	if o.Price != nil {
		s := o.Price.String()
		price = &s
	}
	return orderResponse{
		OrderID:   o.ID,
		Symbol:    o.Pair,
		Side:      string(o.Side),
		Type:      string(o.Type),
		Price:     price,
		Quantity:  o.Qty.String(),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// mapSimulatorError maps domain errors to HTTP responses.
func mapSimulatorError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnknownInstance):
		WriteError(w, http.StatusNotFound, "unknown_instance", err.Error())
	case errors.Is(err, domain.ErrUnresolvedAssetPair):
		WriteError(w, http.StatusBadRequest, "unresolved_asset_pair", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrNoCandleAvailable):
		WriteError(w, http.StatusConflict, "no_candle_available", err.Error())
	case errors.Is(err, domain.ErrMissingOrderPrice):
		WriteError(w, http.StatusConflict, "missing_order_price", err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_price", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
