package engine

import (
	"math"

	"github.com/mgi25/news-market-game-updated/internal/domain"
)

// Side is the trade direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Quote is a two-sided price for a ticker. Spread widens with volatility
// and is capped so the market never becomes untradeable.
type Quote struct {
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	SpreadPct float64 `json:"spread_pct"`
}

// Fill is the result of pricing one order: the execution price after
// spread and slippage, plus the settled notional and fee in cents.
type Fill struct {
	Ticker        string
	Side          Side
	Quantity      int64
	Price         float64
	SpreadPct     float64
	SlippagePct   float64
	NotionalCents int64
	FeeCents      int64
}

// Quote returns the bid/ask for a ticker derived from the current mark
// price and volatility.
func (e *Engine) Quote(ticker string) (Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.states[ticker]
	if !ok {
		return Quote{}, domain.ErrUnknownTicker
	}
	return e.quoteLocked(st), nil
}

// QuotesAll returns the bid/ask for every ticker in one consistent view.
func (e *Engine) QuotesAll() map[string]Quote {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]Quote, len(e.states))
	for t, st := range e.states {
		out[t] = e.quoteLocked(st)
	}
	return out
}

func (e *Engine) quoteLocked(st *State) Quote {
	m := e.cfg.Micro

	spread := m.BaseSpread + st.Volatility*m.SpreadVolK
	spread = math.Min(m.SpreadCap, math.Max(m.BaseSpread, spread))

	return Quote{
		Bid:       st.Price * (1.0 - spread/2.0),
		Ask:       st.Price * (1.0 + spread/2.0),
		SpreadPct: spread,
	}
}

// fillLocked prices one order: base price is the ask for buys and the bid
// for sells, then slippage grows with order size relative to liquidity
// and with volatility, capped at the configured maximum.
func (e *Engine) fillLocked(ticker string, st *State, side Side, qty int64) Fill {
	m := e.cfg.Micro
	q := e.quoteLocked(st)

	basePx := q.Ask
	if side == SideSell {
		basePx = q.Bid
	}

	liq := math.Max(m.MinLiquidity, st.Liquidity)
	slip := m.BaseSlip + m.SlipQtyK*(float64(qty)/liq) + m.SlipVolK*st.Volatility
	slip = math.Min(m.SlipCap, math.Max(m.BaseSlip, slip))

	fillPx := basePx * (1.0 + slip)
	if side == SideSell {
		fillPx = basePx * (1.0 - slip)
	}

	notional := fillPx * float64(qty)
	notionalCents := domain.RoundToCents(notional)
	feeCents := domain.RoundToCents(notional * m.FeePct)
	if feeCents < m.MinFeeCents {
		feeCents = m.MinFeeCents
	}

	return Fill{
		Ticker:        ticker,
		Side:          side,
		Quantity:      qty,
		Price:         fillPx,
		SpreadPct:     q.SpreadPct,
		SlippagePct:   slip,
		NotionalCents: notionalCents,
		FeeCents:      feeCents,
	}
}

// ExecuteTrade prices an order and settles it atomically: the settle
// callback (cash/holdings validation and mutation) runs under the same
// lock that protects the market table, so the fill can never be priced
// against state a concurrent tick is rewriting. If settle returns an
// error nothing is mutated. When trade impact is enabled, a successful
// fill also moves the mark price by ImpactK * qty / liquidity in the
// direction of the order.
func (e *Engine) ExecuteTrade(ticker string, side Side, qty int64, settle func(Fill) error) (Fill, error) {
	if side != SideBuy && side != SideSell {
		return Fill{}, domain.ErrInvalidSide
	}
	if qty <= 0 {
		return Fill{}, domain.ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.states[ticker]
	if !ok {
		return Fill{}, domain.ErrUnknownTicker
	}

	fill := e.fillLocked(ticker, st, side, qty)
	if err := settle(fill); err != nil {
		return Fill{}, err
	}

	if e.cfg.Micro.TradeImpact {
		liq := math.Max(e.cfg.Micro.MinLiquidity, st.Liquidity)
		impact := e.cfg.Micro.ImpactK * float64(qty) / liq
		if side == SideSell {
			impact = -impact
		}
		st.Price = math.Max(1.0, st.Price*(1.0+impact))
	}

	return fill, nil
}
