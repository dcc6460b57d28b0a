package service

import (
	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

// AdminStateView is the operator's round overview, including the model
// internals players must never see.
type AdminStateView struct {
	Round    int                              `json:"round"`
	Status   string                           `json:"status"`
	TimerS   *int                             `json:"timer_s"`
	Headline string                           `json:"headline"`
	Dynamics map[string]engine.TickerDynamics `json:"dynamics"`
	Impact   map[string]string                `json:"impact_map"`
}

// AdminService drives the game: triggering news rounds, resetting state,
// and exposing the unredacted catalogue and market internals.
type AdminService struct {
	eng       *engine.Engine
	players   *store.PlayerStore
	catalogue *domain.Catalogue
	rng       engine.Source
	password  string
}

// NewAdminService creates a new AdminService. The random source is
// independent of the engine's seeded stream so random round selection
// never perturbs reproducible price paths.
func NewAdminService(
	eng *engine.Engine,
	players *store.PlayerStore,
	catalogue *domain.Catalogue,
	rng engine.Source,
	password string,
) *AdminService {
	return &AdminService{
		eng:       eng,
		players:   players,
		catalogue: catalogue,
		rng:       rng,
		password:  password,
	}
}

// Authenticate checks the shared admin password.
func (s *AdminService) Authenticate(password string) error {
	if password != s.password {
		return domain.ErrUnauthorized
	}
	return nil
}

// State returns the operator round overview.
func (s *AdminService) State() AdminStateView {
	var timer *int
	if left, ok := s.eng.SecondsLeft(); ok {
		timer = &left
	}

	var headline string
	if ev, ok := s.eng.CurrentNews(); ok {
		headline = ev.Headline
	}

	impact := make(map[string]string)
	for t, lvl := range s.eng.ImpactLevels() {
		impact[t] = string(lvl)
	}

	return AdminStateView{
		Round:    s.eng.Round(),
		Status:   string(s.eng.Status()),
		TimerS:   timer,
		Headline: headline,
		Dynamics: s.eng.Dynamics(),
		Impact:   impact,
	}
}

// Catalogue returns the full news list with internal fields, for running
// the game.
func (s *AdminService) Catalogue() []domain.NewsEvent {
	return s.catalogue.All()
}

// Trigger applies the identified news event and opens a reaction window.
func (s *AdminService) Trigger(newsID string) error {
	ev, err := s.catalogue.Get(newsID)
	if err != nil {
		return err
	}
	s.eng.ApplyNews(ev)
	return nil
}

// Random applies a randomly selected news event and returns its ID.
// The catalogue is validated non-empty at load, so a draw always exists.
func (s *AdminService) Random() string {
	ev := s.catalogue.At(s.rng.IntN(s.catalogue.Len()))
	s.eng.ApplyNews(ev)
	return ev.ID
}

// Reset restores the market to start prices and wipes all players.
func (s *AdminService) Reset() {
	s.eng.Reset()
	s.players.Reset()
}
