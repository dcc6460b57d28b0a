package engine

// State is the mutable per-ticker market state advanced by every tick.
// All mutation happens under the engine mutex.
type State struct {
	// Price is the current mid/mark price. Invariant: >= 1.0.
	Price float64
	// PrevPrice is the price at the start of the previous tick, used for
	// tick-over-tick move calculations.
	PrevPrice float64
	// Volatility is the smoothed per-tick stddev of log-returns, clamped
	// to the configured floor.
	Volatility float64
	// Trend is the signed per-tick drift accumulator; decays geometrically.
	Trend float64
	// Shock is extra volatility injected by news; decays geometrically.
	Shock float64
	// FairValue is the slow-moving anchor price mean reversion pulls toward.
	FairValue float64
	// Liquidity is the depth proxy; higher liquidity means less slippage
	// for a given order size.
	Liquidity float64
}

// TickerDynamics is an operator-only view of a ticker's model internals.
// It must never appear in a player-facing read.
type TickerDynamics struct {
	Volatility float64 `json:"volatility"`
	Trend      float64 `json:"trend"`
	Shock      float64 `json:"shock"`
	FairValue  float64 `json:"fair_value"`
	Liquidity  float64 `json:"liquidity"`
}
