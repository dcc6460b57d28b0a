package engine

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mgi25/news-market-game-updated/internal/config"
	"github.com/mgi25/news-market-game-updated/internal/domain"
)

// Status is the engine's round state.
type Status string

const (
	StatusIdle     Status = "IDLE"
	StatusReaction Status = "REACTION"
)

// ImpactLevel classifies how a ticker is affected by the current news
// round. It is a presenter-only label: player-facing reads must redact
// it to LevelNone.
type ImpactLevel string

const (
	LevelDirect ImpactLevel = "DIRECT"
	LevelSector ImpactLevel = "SECTOR"
	LevelLinked ImpactLevel = "LINKED"
	LevelNone   ImpactLevel = "NONE"
)

// reactionWindow is the bounded interval after a news event during which
// impact weights and minimum-move enforcement are active. Weights and the
// start-price snapshot are frozen for the window's duration.
type reactionWindow struct {
	active      bool
	startAt     time.Time
	endAt       time.Time
	intensity   domain.Intensity
	weights     map[string]float64
	levels      map[string]ImpactLevel
	startPrices map[string]float64
}

// Engine owns the market table, the reaction window, and the tick loop.
// One mutex guards the whole consistency unit: a tick is never observed
// partially applied and a trade never reads prices mid-rewrite. The lock
// is held only for numeric work; no I/O happens inside it.
type Engine struct {
	mu          sync.Mutex
	cfg         *config.Config
	instruments *domain.InstrumentSet
	rng         Source
	now         func() time.Time

	states map[string]*State
	hist   map[string]*History

	round   int
	status  Status
	window  reactionWindow
	current *domain.NewsEvent
	deck    *deck
	card    *Card
}

// Option configures an Engine at construction. Used by tests to inject
// a fake clock.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine with market state initialized from the instrument
// registry: price and fair value at start price, volatility and liquidity
// from the sector personality with a small random jitter so tickers don't
// move in lockstep.
func New(cfg *config.Config, instruments *domain.InstrumentSet, rng Source, opts ...Option) *Engine {
	e := &Engine{
		cfg:         cfg,
		instruments: instruments,
		rng:         rng,
		now:         time.Now,
		states:      make(map[string]*State, instruments.Len()),
		hist:        make(map[string]*History, instruments.Len()),
		status:      StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.deck = newDeck(rng)

	now := e.now()
	for _, ins := range instruments.All() {
		e.states[ins.Ticker] = e.freshState(ins)
		e.hist[ins.Ticker] = newHistory(ins.StartPrice, now, cfg.CandleInterval)
	}
	return e
}

func (e *Engine) freshState(ins domain.Instrument) *State {
	j := e.cfg.Dynamics.InitJitter
	baseVol := e.cfg.Sectors.BaseVolFor(ins.Sector) * e.rng.Uniform(1-j, 1+j)
	return &State{
		Price:      ins.StartPrice,
		PrevPrice:  ins.StartPrice,
		Volatility: math.Max(e.cfg.Dynamics.MinVol, baseVol),
		FairValue:  ins.StartPrice,
		Liquidity:  e.cfg.Sectors.LiquidityFor(ins.Sector) * e.rng.Uniform(1-j, 1+j),
	}
}

// Start launches the background tick loop at the configured interval.
// It stops when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(e.cfg.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Tick()
			}
		}
	}()
}

// Reset restores every ticker to its configured start price, clears all
// trend/shock/window state, resets histories, and reshuffles the deck.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for _, ins := range e.instruments.All() {
		e.states[ins.Ticker] = e.freshState(ins)
		e.hist[ins.Ticker].Reset(ins.StartPrice, now)
	}
	e.round = 0
	e.status = StatusIdle
	e.window = reactionWindow{}
	e.current = nil
	e.card = nil
	e.deck.shuffle(e.rng)
}

// Round returns the number of news rounds applied since the last reset.
func (e *Engine) Round() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// Status returns IDLE or REACTION, evaluating window expiry first so a
// stale window is never reported as active.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expireWindowLocked(e.now())
	return e.status
}

// CurrentNews returns the active round's event, if any.
func (e *Engine) CurrentNews() (domain.NewsEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expireWindowLocked(e.now())
	if e.current == nil {
		return domain.NewsEvent{}, false
	}
	return *e.current, true
}

// Card returns the current round's theme card, if one has been drawn.
func (e *Engine) Card() (Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.card == nil {
		return Card{}, false
	}
	return *e.card, true
}

// SecondsLeft reports the remaining reaction-window time. ok is false
// when no window is active.
func (e *Engine) SecondsLeft() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.expireWindowLocked(now)
	if e.status != StatusReaction {
		return 0, false
	}
	left := int(e.window.endAt.Sub(now).Seconds())
	if left < 0 {
		left = 0
	}
	return left, true
}

// Prices returns the current mark price per ticker.
func (e *Engine) Prices() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]float64, len(e.states))
	for t, st := range e.states {
		out[t] = st.Price
	}
	return out
}

// Dynamics returns the operator-only model internals per ticker.
func (e *Engine) Dynamics() map[string]TickerDynamics {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]TickerDynamics, len(e.states))
	for t, st := range e.states {
		out[t] = TickerDynamics{
			Volatility: st.Volatility,
			Trend:      st.Trend,
			Shock:      st.Shock,
			FairValue:  st.FairValue,
			Liquidity:  st.Liquidity,
		}
	}
	return out
}

// ImpactLevels returns the presenter-only impact classification for the
// current round. Every ticker maps to NONE when no round is active.
func (e *Engine) ImpactLevels() map[string]ImpactLevel {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expireWindowLocked(e.now())

	out := make(map[string]ImpactLevel, e.instruments.Len())
	for _, ins := range e.instruments.All() {
		out[ins.Ticker] = LevelNone
	}
	if e.window.active {
		for t, lvl := range e.window.levels {
			out[t] = lvl
		}
	}
	return out
}

// Mover is one row of the top-movers board.
type Mover struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Sector string  `json:"sector"`
	Price  float64 `json:"price"`
	Pct    float64 `json:"pct"`
}

// Movers returns the top n tickers by absolute tick-over-tick move.
func (e *Engine) Movers(n int) []Mover {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Mover, 0, e.instruments.Len())
	for _, ins := range e.instruments.All() {
		st := e.states[ins.Ticker]
		pct := 0.0
		if st.PrevPrice != 0 {
			pct = (st.Price - st.PrevPrice) / st.PrevPrice
		}
		out = append(out, Mover{
			Ticker: ins.Ticker,
			Name:   ins.Name,
			Sector: ins.Sector,
			Price:  st.Price,
			Pct:    pct,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].Pct) > math.Abs(out[j].Pct)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// ReactionMeta summarizes the active round for dashboards: affected
// ticker count, elapsed progress, and a qualitative pulse derived from
// the mean |trend|+shock across impacted tickers.
type ReactionMeta struct {
	Active   bool   `json:"active"`
	Pulse    string `json:"pulse"`
	Affected int    `json:"affected"`
	Progress int    `json:"progress"`
}

// Pulse thresholds on mean |trend|+shock over impacted tickers.
const (
	pulseMediumAt = 0.0012
	pulseHighAt   = 0.0025
)

// ReactionMeta returns the current round summary.
func (e *Engine) ReactionMeta() ReactionMeta {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.expireWindowLocked(now)

	if e.status != StatusReaction {
		return ReactionMeta{Pulse: "CALM"}
	}

	var affected int
	var magSum float64
	for t, w := range e.window.weights {
		if w <= 0 {
			continue
		}
		affected++
		st := e.states[t]
		magSum += math.Abs(st.Trend) + st.Shock
	}

	pulse := "CALM"
	if affected > 0 {
		mean := magSum / float64(affected)
		switch {
		case mean >= pulseHighAt:
			pulse = "HIGH"
		case mean >= pulseMediumAt:
			pulse = "MEDIUM"
		}
	}

	elapsed := now.Sub(e.window.startAt)
	progress := int(100 * elapsed / e.cfg.ReactionWindow)
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return ReactionMeta{Active: true, Pulse: pulse, Affected: affected, Progress: progress}
}

// Sparklines returns the recent price series per ticker.
func (e *Engine) Sparklines() map[string][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string][]float64, len(e.hist))
	for t, h := range e.hist {
		out[t] = h.Sparkline()
	}
	return out
}

// CandleSeries returns the OHLC series per ticker.
func (e *Engine) CandleSeries() map[string][]Candle {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string][]Candle, len(e.hist))
	for t, h := range e.hist {
		out[t] = h.Candles()
	}
	return out
}
