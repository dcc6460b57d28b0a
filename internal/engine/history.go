package engine

import "time"

const (
	sparklineLen = 30
	maxCandles   = 80
)

// Candle is one OHLC bucket for charting.
type Candle struct {
	Ts    int64   `json:"ts"`
	Open  float64 `json:"o"`
	High  float64 `json:"h"`
	Low   float64 `json:"l"`
	Close float64 `json:"c"`
}

// History keeps a fixed-capacity sparkline series and OHLC candles for
// one ticker. It is presentation state maintained by the tick loop and
// guarded by the engine mutex like the rest of the market table.
type History struct {
	spark       []float64
	candles     []Candle
	candleEvery time.Duration
}

func newHistory(startPrice float64, now time.Time, candleEvery time.Duration) *History {
	h := &History{candleEvery: candleEvery}
	h.Reset(startPrice, now)
	return h
}

// Reset reinitializes the series to a flat line at startPrice.
func (h *History) Reset(startPrice float64, now time.Time) {
	h.spark = make([]float64, sparklineLen)
	for i := range h.spark {
		h.spark[i] = startPrice
	}
	h.candles = []Candle{{
		Ts:    now.Unix(),
		Open:  startPrice,
		High:  startPrice,
		Low:   startPrice,
		Close: startPrice,
	}}
}

// Observe records a new price: appends to the sparkline (evicting the
// oldest point) and either extends the current candle or opens a new one
// once the candle interval has elapsed.
func (h *History) Observe(now time.Time, px float64) {
	h.spark = append(h.spark, px)
	if len(h.spark) > sparklineLen {
		h.spark = h.spark[len(h.spark)-sparklineLen:]
	}

	last := &h.candles[len(h.candles)-1]
	if now.Unix()-last.Ts >= int64(h.candleEvery.Seconds()) {
		h.candles = append(h.candles, Candle{Ts: now.Unix(), Open: px, High: px, Low: px, Close: px})
		if len(h.candles) > maxCandles {
			h.candles = h.candles[len(h.candles)-maxCandles:]
		}
		return
	}

	if px > last.High {
		last.High = px
	}
	if px < last.Low {
		last.Low = px
	}
	last.Close = px
}

// Sparkline returns a copy of the recent price series.
func (h *History) Sparkline() []float64 {
	out := make([]float64, len(h.spark))
	copy(out, h.spark)
	return out
}

// Candles returns a copy of the OHLC series.
func (h *History) Candles() []Candle {
	out := make([]Candle, len(h.candles))
	copy(out, h.candles)
	return out
}
