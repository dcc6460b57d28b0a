package engine

import (
	"math"
	"strings"

	"github.com/mgi25/news-market-game-updated/internal/domain"
)

// ApplyNews applies a scripted news event: resolves the impacted ticker
// set, injects an immediate gap move plus sustained drift and a
// volatility shock scaled by intensity and impact weight, and opens a
// reaction window with a frozen start-price snapshot.
func (e *Engine) ApplyNews(ev domain.NewsEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.expireWindowLocked(now)

	card := e.deck.draw(e.rng)
	e.card = &card
	jumpMul, trendMul, volMul := cardMultipliers(card)

	profile := e.cfg.Profiles.For(strings.ToUpper(string(ev.Intensity)))
	sign := ev.Direction.Sign()

	weights, levels := e.resolveImpact(ev)

	startPrices := make(map[string]float64, len(e.states))
	for t, st := range e.states {
		startPrices[t] = st.Price
	}

	for t, w := range weights {
		if w <= 0 {
			continue
		}
		st := e.states[t]

		jump := e.rng.Uniform(profile.JumpLo, profile.JumpHi) * w * sign * jumpMul
		trendDelta := e.rng.Uniform(profile.TrendLo, profile.TrendHi) * w * sign * trendMul
		volDelta := e.rng.Uniform(profile.VolLo, profile.VolHi) * w * volMul

		st.Price = math.Max(1.0, st.Price*(1.0+jump))
		st.Trend += trendDelta
		st.Shock += volDelta
	}

	e.window = reactionWindow{
		active:      true,
		startAt:     now,
		endAt:       now.Add(e.cfg.ReactionWindow),
		intensity:   ev.Intensity,
		weights:     weights,
		levels:      levels,
		startPrices: startPrices,
	}
	e.round++
	e.current = &ev
	e.status = StatusReaction
}

// resolveImpact maps a news event to per-ticker impact weights and
// presenter-only classification levels:
//
//   - DIRECT: explicitly named tickers, or every member of a named sector
//     when the event names no tickers.
//   - SECTOR: same-sector peers of a named sector.
//   - LINKED: members of sectors linked to a named sector.
//
// On UP news, sectors configured as inverse targets of a named sector
// receive at least the inverse floor weight, modelling cost-shock
// spillover without leaking direction through the level label.
func (e *Engine) resolveImpact(ev domain.NewsEvent) (map[string]float64, map[string]ImpactLevel) {
	sectorSet := make(map[string]bool, len(ev.Sectors))
	for _, s := range ev.Sectors {
		sectorSet[s] = true
	}
	direct := make(map[string]bool, len(ev.Tickers))
	for _, t := range ev.Tickers {
		direct[t] = true
	}

	// Sector news with no named tickers hits every company in the sector.
	if len(direct) == 0 && len(sectorSet) > 0 {
		for _, ins := range e.instruments.All() {
			if sectorSet[ins.Sector] {
				direct[ins.Ticker] = true
			}
		}
	}

	linkedSectors := make(map[string]bool)
	for s := range sectorSet {
		for _, ls := range e.cfg.Sectors.Links[s] {
			linkedSectors[ls] = true
		}
	}

	weights := make(map[string]float64, e.instruments.Len())
	levels := make(map[string]ImpactLevel, e.instruments.Len())

	for _, ins := range e.instruments.All() {
		switch {
		case direct[ins.Ticker]:
			weights[ins.Ticker] = e.cfg.Weights.Direct
			levels[ins.Ticker] = LevelDirect
		case sectorSet[ins.Sector]:
			weights[ins.Ticker] = e.cfg.Weights.Sector
			levels[ins.Ticker] = LevelSector
		case linkedSectors[ins.Sector]:
			weights[ins.Ticker] = e.cfg.Weights.Linked
			levels[ins.Ticker] = LevelLinked
		default:
			weights[ins.Ticker] = 0
			levels[ins.Ticker] = LevelNone
		}
	}

	// Inverse spillover: only on UP news, and only a weight floor.
	if ev.Direction == domain.DirectionUp && len(sectorSet) > 0 {
		inverseSectors := make(map[string]bool)
		for src, targets := range e.cfg.Sectors.Inverse {
			if !sectorSet[src] {
				continue
			}
			for _, t := range targets {
				inverseSectors[t] = true
			}
		}
		for _, ins := range e.instruments.All() {
			if !inverseSectors[ins.Sector] {
				continue
			}
			if levels[ins.Ticker] == LevelNone {
				levels[ins.Ticker] = LevelLinked
			}
			weights[ins.Ticker] = math.Max(weights[ins.Ticker], e.cfg.Weights.Inverse)
		}
	}

	return weights, levels
}
