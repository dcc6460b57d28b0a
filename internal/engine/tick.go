package engine

import (
	"math"
	"time"

	"github.com/mgi25/news-market-game-updated/internal/domain"
)

// Tick advances the market by one step: expire a stale reaction window,
// then per ticker decay shock and trend, recompute clustered volatility,
// apply mean reversion, draw noise, and update price and fair value.
// Minimum-move enforcement runs last so the guarantee sees the tick's
// final prices.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.expireWindowLocked(now)

	for _, ins := range e.instruments.All() {
		st := e.states[ins.Ticker]
		st.PrevPrice = st.Price
		e.advance(ins, st)
		e.hist[ins.Ticker].Observe(now, st.Price)
	}

	e.enforceMinimumMove(now)
}

// advance runs the stochastic price model for one ticker. It is a pure
// numeric step: every division and exponential is guarded so it can never
// emit NaN/Inf or a price below the 1.0 floor.
func (e *Engine) advance(ins domain.Instrument, st *State) {
	d := e.cfg.Dynamics
	baseVol := e.cfg.Sectors.BaseVolFor(ins.Sector)

	// Volatility clustering with news shock on top.
	st.Shock *= d.ShockDecay
	st.Volatility = math.Max(d.MinVol, d.VolSmooth*st.Volatility+(1-d.VolSmooth)*baseVol+st.Shock)

	st.Trend *= d.TrendDecay

	// Mean reversion toward fair value, suppressed while a shock is
	// running so news moves get room before being pulled back.
	if st.FairValue > 0 {
		mispricing := (st.Price - st.FairValue) / st.FairValue
		calm := 1.0 - math.Min(1.0, st.Shock*d.CalmShockK)
		if calm < 0 {
			calm = 0
		}
		st.Trend -= d.MeanRevertK * mispricing * calm
	}

	eps := e.rng.Normal()
	r := st.Trend + st.Volatility*eps
	if math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0
	}

	st.Price = math.Max(1.0, st.Price*math.Exp(r))

	// Fair value follows slowly.
	st.FairValue = d.FairSmooth*st.FairValue + (1-d.FairSmooth)*st.Price
	if st.FairValue <= 0 || math.IsNaN(st.FairValue) || math.IsInf(st.FairValue, 0) {
		st.FairValue = st.Price
	}
}

// expireWindowLocked closes the reaction window once its wall-clock end
// has passed: status returns to IDLE, residual trend and shock are
// partially decayed to avoid an abrupt regime change, and the current
// news reference and impact snapshot are cleared.
func (e *Engine) expireWindowLocked(now time.Time) {
	if e.status != StatusReaction || now.Before(e.window.endAt) {
		return
	}

	e.status = StatusIdle
	e.window = reactionWindow{}
	e.current = nil

	for _, st := range e.states {
		st.Trend *= e.cfg.Dynamics.ExpiryDecay
		st.Shock *= e.cfg.Dynamics.ExpiryDecay
	}
}
