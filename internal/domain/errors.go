package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrUnknownTicker        = errors.New("unknown_ticker")
	ErrInvalidSide          = errors.New("invalid_side")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInsufficientCash     = errors.New("insufficient_cash")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
	ErrNewsNotFound         = errors.New("news_not_found")
	ErrPlayerNotFound       = errors.New("player_not_found")
	ErrUnauthorized         = errors.New("unauthorized")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
