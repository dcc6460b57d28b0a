package service

import (
	"testing"

	"github.com/mgi25/news-market-game-updated/internal/config"
	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

const testStartCash = 1_000_000 // $10,000.00

type testGame struct {
	cfg       *config.Config
	eng       *engine.Engine
	players   *store.PlayerStore
	catalogue *domain.Catalogue
	market    *MarketService
	trade     *TradeService
	admin     *AdminService
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()

	instruments, err := domain.NewInstrumentSet([]domain.Instrument{
		{Ticker: "NVX", Name: "Novatrix Systems", Sector: "Tech", StartPrice: 100},
		{Ticker: "QBT", Name: "Qubitron Labs", Sector: "Tech", StartPrice: 50},
		{Ticker: "MRB", Name: "Meridian Bank", Sector: "Banking", StartPrice: 80},
	})
	if err != nil {
		t.Fatal(err)
	}

	catalogue, err := domain.NewCatalogue([]domain.NewsEvent{
		{
			ID:        "tech-rally",
			Headline:  "Tech rally headline",
			Summary:   "Public summary",
			Direction: domain.DirectionUp,
			Intensity: domain.IntensityHigh,
			Sectors:   []string{"Tech"},
		},
		{
			ID:        "bank-trouble",
			Headline:  "Bank trouble headline",
			Direction: domain.DirectionDown,
			Intensity: domain.IntensityMedium,
			Tickers:   []string{"MRB"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.StartCashCents = testStartCash

	eng := engine.New(cfg, instruments, engine.NewSource(7))
	players := store.NewPlayerStore(cfg.StartCashCents)

	return &testGame{
		cfg:       cfg,
		eng:       eng,
		players:   players,
		catalogue: catalogue,
		market:    NewMarketService(eng, players, instruments),
		trade:     NewTradeService(eng, players),
		admin:     NewAdminService(eng, players, catalogue, engine.NewSource(0), "secret"),
	}
}
