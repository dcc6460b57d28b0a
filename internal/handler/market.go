package handler

import (
	"net/http"

	"github.com/mgi25/news-market-game-updated/internal/service"
)

// MarketHandler handles HTTP requests for game-state reads.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// Bootstrap handles GET /api/bootstrap.
func (h *MarketHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.marketSvc.Bootstrap())
}

// State handles GET /api/state. The optional "player" query parameter
// selects the player view (portfolio included, impact map redacted);
// omitting it selects the presenter view.
func (h *MarketHandler) State(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	WriteJSON(w, http.StatusOK, h.marketSvc.State(player))
}
