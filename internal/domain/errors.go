package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrUnresolvedAssetPair = errors.New("unresolved_asset_pair")
	ErrInsufficientFunds   = errors.New("insufficient_funds")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrMissingOrderPrice   = errors.New("missing_order_price")
	ErrNoCandleAvailable   = errors.New("no_candle_available")
	ErrUnknownInstance     = errors.New("unknown_instance")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
