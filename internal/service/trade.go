package service

import (
	"strings"

	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

// TradeRequest is a validated trade submission.
type TradeRequest struct {
	Player   string
	Ticker   string
	Side     string
	Quantity int64
}

// TradeResult is the outcome returned to the caller. Percentages are
// already scaled to human units (0.12 means 0.12%).
type TradeResult struct {
	FillPrice   float64 `json:"fill_price"`
	SpreadPct   float64 `json:"spread_pct"`
	SlippagePct float64 `json:"slip_pct"`
	Fee         float64 `json:"fee"`
}

// TradeService executes player trades: pricing comes from the engine and
// settlement mutates the player store inside the engine's lock, so a
// trade is all-or-nothing and never races a market tick.
type TradeService struct {
	eng     *engine.Engine
	players *store.PlayerStore
}

// NewTradeService creates a new TradeService.
func NewTradeService(eng *engine.Engine, players *store.PlayerStore) *TradeService {
	return &TradeService{eng: eng, players: players}
}

// Execute validates and settles one trade.
func (s *TradeService) Execute(req TradeRequest) (*TradeResult, error) {
	player := strings.TrimSpace(req.Player)
	if player == "" {
		return nil, &domain.ValidationError{Message: "player is required"}
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	side := strings.ToUpper(strings.TrimSpace(req.Side))

	s.players.Ensure(player)

	fill, err := s.eng.ExecuteTrade(ticker, engine.Side(side), req.Quantity, func(f engine.Fill) error {
		return s.players.Apply(player, store.Execution{
			Ticker:        f.Ticker,
			Side:          string(f.Side),
			Quantity:      f.Quantity,
			Price:         f.Price,
			NotionalCents: f.NotionalCents,
			FeeCents:      f.FeeCents,
		})
	})
	if err != nil {
		return nil, err
	}

	return &TradeResult{
		FillPrice:   fill.Price,
		SpreadPct:   fill.SpreadPct * 100,
		SlippagePct: fill.SlippagePct * 100,
		Fee:         domain.CentsToDollars(fill.FeeCents),
	}, nil
}
