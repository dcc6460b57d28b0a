package service

import (
	"strings"

	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

const topMoverCount = 6

// BootstrapView is the static game setup sent to clients once.
type BootstrapView struct {
	Companies []domain.Instrument `json:"companies"`
	Sectors   []string            `json:"sectors"`
}

// NewsView is the player-safe news payload: redacted event text plus the
// round's theme card.
type NewsView struct {
	domain.PublicNews
	Card *engine.Card `json:"card"`
}

// StateView is the polled game state. The impact map is redacted to NONE
// for player reads; only the presenter view carries real levels.
type StateView struct {
	Round        int                        `json:"round"`
	Status       string                     `json:"status"`
	TimerS       *int                       `json:"timer_s"`
	News         *NewsView                  `json:"news"`
	Prices       map[string]float64         `json:"prices"`
	Leaderboard  []store.LeaderboardRow     `json:"leaderboard"`
	Movers       []engine.Mover             `json:"movers"`
	ReactionMeta engine.ReactionMeta        `json:"reaction_meta"`
	ImpactMap    map[string]string          `json:"impact_map"`
	Quotes       map[string]engine.Quote    `json:"quotes"`
	History      map[string][]float64       `json:"history"`
	OHLC         map[string][]engine.Candle `json:"ohlc"`
	Portfolio    *store.PortfolioView       `json:"portfolio,omitempty"`
}

// MarketService assembles read-only game views over the engine and the
// player store.
type MarketService struct {
	eng         *engine.Engine
	players     *store.PlayerStore
	instruments *domain.InstrumentSet
}

// NewMarketService creates a new MarketService.
func NewMarketService(eng *engine.Engine, players *store.PlayerStore, instruments *domain.InstrumentSet) *MarketService {
	return &MarketService{eng: eng, players: players, instruments: instruments}
}

// Bootstrap returns the instrument list and sector names.
func (s *MarketService) Bootstrap() BootstrapView {
	return BootstrapView{
		Companies: s.instruments.All(),
		Sectors:   s.instruments.Sectors(),
	}
}

// State builds the polled game state. A non-empty player name selects the
// player view: portfolio included, impact map forced to NONE. An empty
// name selects the presenter view with real impact levels.
func (s *MarketService) State(player string) StateView {
	player = strings.TrimSpace(player)
	prices := s.eng.Prices()

	var timer *int
	if left, ok := s.eng.SecondsLeft(); ok {
		timer = &left
	}

	var news *NewsView
	if ev, ok := s.eng.CurrentNews(); ok {
		view := NewsView{PublicNews: ev.Public()}
		if card, ok := s.eng.Card(); ok {
			view.Card = &card
		}
		news = &view
	}

	impact := make(map[string]string, s.instruments.Len())
	if player != "" {
		// Players never see the impact classification.
		for _, ins := range s.instruments.All() {
			impact[ins.Ticker] = string(engine.LevelNone)
		}
	} else {
		for t, lvl := range s.eng.ImpactLevels() {
			impact[t] = string(lvl)
		}
	}

	view := StateView{
		Round:        s.eng.Round(),
		Status:       string(s.eng.Status()),
		TimerS:       timer,
		News:         news,
		Prices:       prices,
		Leaderboard:  s.players.Leaderboard(prices),
		Movers:       s.eng.Movers(topMoverCount),
		ReactionMeta: s.eng.ReactionMeta(),
		ImpactMap:    impact,
		Quotes:       s.eng.QuotesAll(),
		History:      s.eng.Sparklines(),
		OHLC:         s.eng.CandleSeries(),
	}

	if player != "" {
		port := s.players.Portfolio(player, prices)
		view.Portfolio = &port
	}
	return view
}
