package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mgi25/news-market-game-updated/internal/domain"
)

// Holding is one player's position in a ticker.
type Holding struct {
	Quantity int64   `json:"qty"`
	AvgPrice float64 `json:"avg"`
}

// TradeRecord is one executed trade in a player's log.
type TradeRecord struct {
	ID       string    `json:"id"`
	Ts       time.Time `json:"ts"`
	Ticker   string    `json:"ticker"`
	Side     string    `json:"side"`
	Quantity int64     `json:"qty"`
	Price    float64   `json:"fill"`
	FeeCents int64     `json:"fee_cents"`
}

// Execution is the priced result of an order, ready to be applied to a
// player's cash and holdings. Amounts are in cents.
type Execution struct {
	Ticker        string
	Side          string // "BUY" or "SELL"
	Quantity      int64
	Price         float64
	NotionalCents int64
	FeeCents      int64
}

// Player holds one player's cash (cents), holdings, and trade log.
type Player struct {
	Cash     int64
	Holdings map[string]*Holding
	Trades   []TradeRecord
}

// PortfolioView is the valuation of a player's account at current prices.
type PortfolioView struct {
	Cash          float64            `json:"cash"`
	HoldingsValue float64            `json:"holdings_value"`
	TotalValue    float64            `json:"total_value"`
	Holdings      map[string]Holding `json:"holdings"`
	RecentTrades  []TradeRecord      `json:"recent_trades"`
}

// LeaderboardRow is one row of the ranked player list.
type LeaderboardRow struct {
	Player string  `json:"player"`
	Total  float64 `json:"total"`
}

const recentTradeCount = 8

// PlayerStore is a thread-safe in-memory store for players, keyed by
// player name. Players are created implicitly with the configured
// starting cash on first sight.
type PlayerStore struct {
	mu             sync.RWMutex
	players        map[string]*Player
	startCashCents int64
}

// NewPlayerStore creates an empty PlayerStore.
func NewPlayerStore(startCashCents int64) *PlayerStore {
	return &PlayerStore{
		players:        make(map[string]*Player),
		startCashCents: startCashCents,
	}
}

// Ensure creates the player with starting cash if absent.
func (s *PlayerStore) Ensure(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(name)
}

func (s *PlayerStore) ensureLocked(name string) *Player {
	p, ok := s.players[name]
	if !ok {
		p = &Player{
			Cash:     s.startCashCents,
			Holdings: make(map[string]*Holding),
		}
		s.players[name] = p
	}
	return p
}

// Apply settles an execution against a player: validates cash (buy) or
// held quantity (sell) and then mutates atomically, so a rejected trade
// leaves no state change. Buys blend the holding's average price by
// notional; a sell that empties a holding removes it.
func (s *PlayerStore) Apply(name string, ex Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureLocked(name)

	switch ex.Side {
	case "BUY":
		cost := ex.NotionalCents + ex.FeeCents
		if p.Cash < cost {
			return domain.ErrInsufficientCash
		}
		p.Cash -= cost

		h, ok := p.Holdings[ex.Ticker]
		if !ok {
			p.Holdings[ex.Ticker] = &Holding{Quantity: ex.Quantity, AvgPrice: ex.Price}
		} else {
			newQty := h.Quantity + ex.Quantity
			h.AvgPrice = (h.AvgPrice*float64(h.Quantity) + ex.Price*float64(ex.Quantity)) / float64(newQty)
			h.Quantity = newQty
		}

	case "SELL":
		h, ok := p.Holdings[ex.Ticker]
		if !ok || h.Quantity < ex.Quantity {
			return domain.ErrInsufficientHoldings
		}
		p.Cash += ex.NotionalCents - ex.FeeCents
		h.Quantity -= ex.Quantity
		if h.Quantity == 0 {
			delete(p.Holdings, ex.Ticker)
		}

	default:
		return domain.ErrInvalidSide
	}

	p.Trades = append(p.Trades, TradeRecord{
		ID:       uuid.NewString(),
		Ts:       time.Now(),
		Ticker:   ex.Ticker,
		Side:     ex.Side,
		Quantity: ex.Quantity,
		Price:    ex.Price,
		FeeCents: ex.FeeCents,
	})
	return nil
}

// Portfolio values a player's account at the given prices. The player is
// created if absent, matching the implicit-join behavior of the game.
func (s *PlayerStore) Portfolio(name string, prices map[string]float64) PortfolioView {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureLocked(name)
	return s.portfolioLocked(p, prices)
}

func (s *PlayerStore) portfolioLocked(p *Player, prices map[string]float64) PortfolioView {
	var holdingsValue float64
	holdings := make(map[string]Holding, len(p.Holdings))
	for t, h := range p.Holdings {
		holdings[t] = *h
		holdingsValue += prices[t] * float64(h.Quantity)
	}

	recent := p.Trades
	if len(recent) > recentTradeCount {
		recent = recent[len(recent)-recentTradeCount:]
	}
	recentCopy := make([]TradeRecord, len(recent))
	copy(recentCopy, recent)

	cash := domain.CentsToDollars(p.Cash)
	return PortfolioView{
		Cash:          cash,
		HoldingsValue: holdingsValue,
		TotalValue:    cash + holdingsValue,
		Holdings:      holdings,
		RecentTrades:  recentCopy,
	}
}

// Leaderboard ranks all players by total account value at the given
// prices, highest first.
func (s *PlayerStore) Leaderboard(prices map[string]float64) []LeaderboardRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LeaderboardRow, 0, len(s.players))
	for name, p := range s.players {
		var holdingsValue float64
		for t, h := range p.Holdings {
			holdingsValue += prices[t] * float64(h.Quantity)
		}
		out = append(out, LeaderboardRow{
			Player: name,
			Total:  domain.CentsToDollars(p.Cash) + holdingsValue,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Cash returns a player's cash in cents. Useful for tests and checks.
func (s *PlayerStore) Cash(name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[name]
	if !ok {
		return 0, domain.ErrPlayerNotFound
	}
	return p.Cash, nil
}

// HoldingQuantity returns the quantity a player holds in a ticker.
func (s *PlayerStore) HoldingQuantity(name, ticker string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[name]
	if !ok {
		return 0
	}
	h, ok := p.Holdings[ticker]
	if !ok {
		return 0
	}
	return h.Quantity
}

// Reset wipes all players.
func (s *PlayerStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[string]*Player)
}
