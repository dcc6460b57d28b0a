package engine

import (
	"math"
	"strings"
	"time"
)

// enforceMinimumMove guarantees that impacted tickers move noticeably
// during the reaction window even when the stochastic path alone would
// stay flat. The per-intensity target scales linearly with elapsed time,
// and any catch-up nudge follows the sign of the accumulated trend so the
// correction never reveals more direction than price action already has.
// Corrections are capped per tick, so convergence is gradual rather than
// a visible jump.
func (e *Engine) enforceMinimumMove(now time.Time) {
	if e.status != StatusReaction || !e.window.active {
		return
	}

	total := e.cfg.ReactionWindow.Seconds()
	if total < 1 {
		total = 1
	}
	elapsed := now.Sub(e.window.startAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	progress := math.Min(1.0, elapsed/total)

	targetTotal := e.cfg.MinMove.For(strings.ToUpper(string(e.window.intensity)))
	targetSoFar := targetTotal * progress

	for t, w := range e.window.weights {
		if w <= 0 {
			continue
		}
		startPx := e.window.startPrices[t]
		if startPx <= 0 {
			continue
		}
		st := e.states[t]

		required := targetSoFar * w
		currentMove := math.Abs(st.Price-startPx) / startPx
		if currentMove >= required {
			continue
		}

		dir := 1.0
		if st.Trend < 0 {
			dir = -1.0
		}
		step := math.Min(e.cfg.MinMove.MaxStepPerTick, required-currentMove)
		st.Price = math.Max(1.0, st.Price*(1.0+dir*step))
	}
}
