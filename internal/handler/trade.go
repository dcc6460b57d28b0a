package handler

import (
	"errors"
	"net/http"

	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/service"
)

// TradeHandler handles HTTP requests for trade execution.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// tradeRequest is the JSON request body for POST /api/trade.
type tradeRequest struct {
	Player   string `json:"player"`
	Ticker   string `json:"ticker"`
	Side     string `json:"side"`
	Quantity int64  `json:"qty"`
}

// Execute handles POST /api/trade.
func (h *TradeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.tradeSvc.Execute(service.TradeRequest{
		Player:   req.Player,
		Ticker:   req.Ticker,
		Side:     req.Side,
		Quantity: req.Quantity,
	})
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// mapTradeError maps domain errors to HTTP responses for the trade endpoint.
func mapTradeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnknownTicker):
		WriteError(w, http.StatusNotFound, "unknown_ticker", err.Error())
	case errors.Is(err, domain.ErrInvalidSide):
		WriteError(w, http.StatusBadRequest, "invalid_side", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrInsufficientCash):
		WriteError(w, http.StatusConflict, "insufficient_cash", err.Error())
	case errors.Is(err, domain.ErrInsufficientHoldings):
		WriteError(w, http.StatusConflict, "insufficient_holdings", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
