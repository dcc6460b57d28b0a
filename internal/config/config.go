package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the news market game.
// Server and game scalars come from environment variables; model tuning
// (weights, decays, microstructure constants, intensity profiles, sector
// personalities) is code-level defaults validated alongside.
type Config struct {
	Port            int
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CompaniesPath string
	NewsPath      string
	AdminPassword string

	// StartCashCents is each player's starting virtual cash, in cents.
	StartCashCents int64
	// TickInterval is the market update period.
	TickInterval time.Duration
	// ReactionWindow is how long a news reaction stays active.
	ReactionWindow time.Duration
	// CandleInterval is the OHLC candle bucket duration for charting.
	CandleInterval time.Duration
	// Seed pins the engine's random source when non-zero; zero means
	// seed from the current time.
	Seed int64

	Weights  ImpactWeights
	Dynamics Dynamics
	Micro    Microstructure
	Profiles NewsProfiles
	MinMove  MinMove
	Sectors  Sectors
}

// ImpactWeights scale how strongly a news event hits each class of ticker.
// All values are fractions in [0, 1]; DIRECT is the reference magnitude.
type ImpactWeights struct {
	Direct  float64 // explicitly named ticker, or full-sector target
	Sector  float64 // same-sector spillover
	Linked  float64 // related-sector spillover
	Inverse float64 // floor weight for inverse spillover on UP news
}

// Dynamics are the per-tick price model controls. All rates are per tick
// on the log-return scale unless noted.
type Dynamics struct {
	MinVol      float64 // volatility floor
	VolSmooth   float64 // EWMA weight on previous volatility, in (0, 1)
	ShockDecay  float64 // news volatility decay factor per tick, in (0, 1)
	TrendDecay  float64 // news drift decay factor per tick, in (0, 1)
	MeanRevertK float64 // pull toward fair value per unit mispricing
	FairSmooth  float64 // EWMA weight on previous fair value, in (0, 1)
	CalmShockK  float64 // shock scale at which mean reversion is fully suppressed
	InitJitter  float64 // ± fraction applied to base vol/liquidity at init
	// ExpiryDecay is applied once to residual trend/shock when a
	// reaction window closes, softening the hand-off back to IDLE.
	ExpiryDecay float64
}

// Microstructure controls execution pricing: spread, slippage, and fees.
// Spread and slippage values are fractions of price.
type Microstructure struct {
	BaseSpread   float64 // minimum half-spread basis (0.0010 = 0.10%)
	SpreadVolK   float64 // spread widening per unit volatility
	SpreadCap    float64 // hard cap on spread_pct
	BaseSlip     float64 // minimum slippage
	SlipQtyK     float64 // slippage per unit (qty / liquidity)
	SlipVolK     float64 // slippage per unit volatility
	SlipCap      float64 // hard cap on slippage_pct
	FeePct       float64 // fee as fraction of notional
	MinFeeCents  int64   // flat fee floor, in cents
	MinLiquidity float64 // liquidity floor used in slippage math
	// TradeImpact, when true, lets fills perturb the mark price by
	// ImpactK * (qty / liquidity). Default off: execution reads prices,
	// it does not write them.
	TradeImpact bool
	ImpactK     float64
}

// NewsProfile is one intensity tier's sampling bands: immediate gap move,
// sustained per-tick drift, and extra volatility during the reaction.
type NewsProfile struct {
	JumpLo, JumpHi   float64
	TrendLo, TrendHi float64
	VolLo, VolHi     float64
}

// NewsProfiles holds the three intensity tiers.
type NewsProfiles struct {
	Low, Medium, High NewsProfile
}

// For selects the profile for an intensity label, defaulting to Low.
func (p NewsProfiles) For(intensity string) NewsProfile {
	switch intensity {
	case "HIGH":
		return p.High
	case "MEDIUM":
		return p.Medium
	default:
		return p.Low
	}
}

// MinMove configures the guaranteed cumulative move on impacted tickers
// by the end of a reaction window, per intensity tier.
type MinMove struct {
	Low, Medium, High float64 // target total move for weight-1.0 tickers
	MaxStepPerTick    float64 // cap on a single catch-up correction
}

// For selects the floor for an intensity label, defaulting to Low.
func (m MinMove) For(intensity string) float64 {
	switch intensity {
	case "HIGH":
		return m.High
	case "MEDIUM":
		return m.Medium
	default:
		return m.Low
	}
}

// Sectors carries the per-sector market personality and the spillover
// topology used by the news impact resolver.
type Sectors struct {
	BaseVol          map[string]float64 // base per-tick volatility by sector
	Liquidity        map[string]float64 // depth proxy by sector
	Links            map[string][]string
	Inverse          map[string][]string // inverse targets on UP news
	DefaultBaseVol   float64
	DefaultLiquidity float64
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	cfg := Default()

	port, err := getInt("PORT", cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.LogLevel = getStr("LOG_LEVEL", cfg.LogLevel)
	if !isValidLogLevel(cfg.LogLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"READ_TIMEOUT", &cfg.ReadTimeout},
		{"WRITE_TIMEOUT", &cfg.WriteTimeout},
		{"IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{"TICK_INTERVAL", &cfg.TickInterval},
		{"REACTION_WINDOW", &cfg.ReactionWindow},
		{"CANDLE_INTERVAL", &cfg.CandleInterval},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, *d.dst)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	cfg.CompaniesPath = getStr("COMPANIES_PATH", cfg.CompaniesPath)
	cfg.NewsPath = getStr("NEWS_PATH", cfg.NewsPath)
	cfg.AdminPassword = getStr("ADMIN_PASSWORD", cfg.AdminPassword)

	startCash, err := getInt64("START_CASH_CENTS", cfg.StartCashCents)
	if err != nil {
		return nil, fmt.Errorf("invalid START_CASH_CENTS: %w", err)
	}
	cfg.StartCashCents = startCash

	seed, err := getInt64("RNG_SEED", cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("invalid RNG_SEED: %w", err)
	}
	cfg.Seed = seed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration, tuned for a ~2-hour party
// game with clearly visible news impact.
func Default() *Config {
	return &Config{
		Port:            8080,
		LogLevel:        "info",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		CompaniesPath: "data/companies.json",
		NewsPath:      "data/news.json",
		AdminPassword: "admin123",

		StartCashCents: 100_000_00,
		TickInterval:   time.Second,
		ReactionWindow: 45 * time.Second,
		CandleInterval: 12 * time.Second,

		Weights: ImpactWeights{
			Direct:  1.00,
			Sector:  0.55,
			Linked:  0.22,
			Inverse: 0.12,
		},
		Dynamics: Dynamics{
			MinVol:      0.00055,
			VolSmooth:   0.92,
			ShockDecay:  0.90,
			TrendDecay:  0.93,
			MeanRevertK: 0.055,
			FairSmooth:  0.995,
			CalmShockK:  420.0,
			InitJitter:  0.15,
			ExpiryDecay: 0.7,
		},
		Micro: Microstructure{
			BaseSpread:   0.0010,
			SpreadVolK:   4.8,
			SpreadCap:    0.02,
			BaseSlip:     0.00018,
			SlipQtyK:     0.020,
			SlipVolK:     0.70,
			SlipCap:      0.05,
			FeePct:       0.0005,
			MinFeeCents:  100,
			MinLiquidity: 500,
			TradeImpact:  false,
			ImpactK:      0.010,
		},
		Profiles: NewsProfiles{
			Low: NewsProfile{
				JumpLo: 0.006, JumpHi: 0.014,
				TrendLo: 0.00010, TrendHi: 0.00030,
				VolLo: 0.00025, VolHi: 0.00070,
			},
			Medium: NewsProfile{
				JumpLo: 0.014, JumpHi: 0.032,
				TrendLo: 0.00022, TrendHi: 0.00065,
				VolLo: 0.00060, VolHi: 0.00160,
			},
			High: NewsProfile{
				JumpLo: 0.030, JumpHi: 0.070,
				TrendLo: 0.00040, TrendHi: 0.00120,
				VolLo: 0.00120, VolHi: 0.00320,
			},
		},
		MinMove: MinMove{
			Low:            0.012,
			Medium:         0.028,
			High:           0.055,
			MaxStepPerTick: 0.0030,
		},
		Sectors: Sectors{
			BaseVol: map[string]float64{
				"Tech":        0.00120,
				"Banking":     0.00095,
				"Telecom":     0.00085,
				"Consumer":    0.00090,
				"Healthcare":  0.00100,
				"Energy":      0.00135,
				"Industrials": 0.00105,
				"RealEstate":  0.00110,
			},
			Liquidity: map[string]float64{
				"Tech":        12000,
				"Banking":     15000,
				"Telecom":     13000,
				"Consumer":    11000,
				"Healthcare":  9000,
				"Energy":      10000,
				"Industrials": 8500,
				"RealEstate":  7000,
			},
			Links: map[string][]string{
				"Tech":        {"Telecom", "Consumer"},
				"Banking":     {"RealEstate", "Consumer"},
				"Telecom":     {"Tech", "Consumer"},
				"Consumer":    {"Tech", "Banking", "RealEstate"},
				"Healthcare":  {"Consumer"},
				"Energy":      {"Industrials", "Consumer", "Telecom"},
				"Industrials": {"Energy", "Banking", "RealEstate"},
				"RealEstate":  {"Banking", "Industrials", "Consumer"},
			},
			Inverse: map[string][]string{
				"Energy":  {"Consumer", "Industrials", "Telecom"},
				"Banking": {"RealEstate"},
			},
			DefaultBaseVol:   0.0012,
			DefaultLiquidity: 8000,
		},
	}
}

// Validate checks every tunable against its documented range.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1, 65535], got %d", c.Port)
	}
	if c.StartCashCents <= 0 {
		return fmt.Errorf("start cash must be > 0, got %d", c.StartCashCents)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be > 0, got %v", c.TickInterval)
	}
	if c.ReactionWindow <= 0 {
		return fmt.Errorf("reaction window must be > 0, got %v", c.ReactionWindow)
	}
	if c.CandleInterval <= 0 {
		return fmt.Errorf("candle interval must be > 0, got %v", c.CandleInterval)
	}

	for _, w := range []struct {
		name string
		v    float64
	}{
		{"direct", c.Weights.Direct},
		{"sector", c.Weights.Sector},
		{"linked", c.Weights.Linked},
		{"inverse", c.Weights.Inverse},
	} {
		if w.v < 0 || w.v > 1 {
			return fmt.Errorf("%s weight must be in [0, 1], got %v", w.name, w.v)
		}
	}

	for _, d := range []struct {
		name string
		v    float64
	}{
		{"vol smooth", c.Dynamics.VolSmooth},
		{"shock decay", c.Dynamics.ShockDecay},
		{"trend decay", c.Dynamics.TrendDecay},
		{"fair smooth", c.Dynamics.FairSmooth},
		{"expiry decay", c.Dynamics.ExpiryDecay},
	} {
		if d.v <= 0 || d.v >= 1 {
			return fmt.Errorf("%s must be in (0, 1), got %v", d.name, d.v)
		}
	}
	if c.Dynamics.MinVol <= 0 {
		return fmt.Errorf("min vol must be > 0, got %v", c.Dynamics.MinVol)
	}
	if c.Dynamics.MeanRevertK < 0 {
		return fmt.Errorf("mean revert k must be >= 0, got %v", c.Dynamics.MeanRevertK)
	}
	if c.Dynamics.CalmShockK < 0 {
		return fmt.Errorf("calm shock k must be >= 0, got %v", c.Dynamics.CalmShockK)
	}
	if c.Dynamics.InitJitter < 0 || c.Dynamics.InitJitter >= 1 {
		return fmt.Errorf("init jitter must be in [0, 1), got %v", c.Dynamics.InitJitter)
	}

	m := c.Micro
	if m.BaseSpread <= 0 || m.SpreadCap < m.BaseSpread {
		return fmt.Errorf("spread bounds invalid: base=%v cap=%v", m.BaseSpread, m.SpreadCap)
	}
	if m.BaseSlip <= 0 || m.SlipCap < m.BaseSlip {
		return fmt.Errorf("slippage bounds invalid: base=%v cap=%v", m.BaseSlip, m.SlipCap)
	}
	if m.SpreadVolK < 0 || m.SlipQtyK < 0 || m.SlipVolK < 0 {
		return fmt.Errorf("microstructure coefficients must be >= 0")
	}
	if m.FeePct < 0 || m.MinFeeCents < 0 {
		return fmt.Errorf("fee settings must be >= 0")
	}
	if m.MinLiquidity <= 0 {
		return fmt.Errorf("min liquidity must be > 0, got %v", m.MinLiquidity)
	}
	if m.TradeImpact && m.ImpactK <= 0 {
		return fmt.Errorf("impact k must be > 0 when trade impact is enabled")
	}

	for _, p := range []struct {
		name string
		v    NewsProfile
	}{
		{"LOW", c.Profiles.Low},
		{"MEDIUM", c.Profiles.Medium},
		{"HIGH", c.Profiles.High},
	} {
		if p.v.JumpLo <= 0 || p.v.JumpHi < p.v.JumpLo {
			return fmt.Errorf("profile %s: jump range invalid", p.name)
		}
		if p.v.TrendLo <= 0 || p.v.TrendHi < p.v.TrendLo {
			return fmt.Errorf("profile %s: trend range invalid", p.name)
		}
		if p.v.VolLo <= 0 || p.v.VolHi < p.v.VolLo {
			return fmt.Errorf("profile %s: vol range invalid", p.name)
		}
	}

	if !(c.MinMove.Low > 0 && c.MinMove.Low < c.MinMove.Medium && c.MinMove.Medium < c.MinMove.High) {
		return fmt.Errorf("min-move floors must be increasing and > 0: %v %v %v",
			c.MinMove.Low, c.MinMove.Medium, c.MinMove.High)
	}
	if c.MinMove.MaxStepPerTick <= 0 {
		return fmt.Errorf("min-move max step must be > 0, got %v", c.MinMove.MaxStepPerTick)
	}

	if c.Sectors.DefaultBaseVol <= 0 || c.Sectors.DefaultLiquidity <= 0 {
		return fmt.Errorf("sector defaults must be > 0")
	}
	for sec, v := range c.Sectors.BaseVol {
		if v <= 0 {
			return fmt.Errorf("base vol for sector %q must be > 0, got %v", sec, v)
		}
	}
	for sec, v := range c.Sectors.Liquidity {
		if v <= 0 {
			return fmt.Errorf("liquidity for sector %q must be > 0, got %v", sec, v)
		}
	}

	return nil
}

// BaseVolFor returns the base volatility for a sector, falling back to
// the configured default.
func (s Sectors) BaseVolFor(sector string) float64 {
	if v, ok := s.BaseVol[sector]; ok {
		return v
	}
	return s.DefaultBaseVol
}

// LiquidityFor returns the liquidity for a sector, falling back to the
// configured default.
func (s Sectors) LiquidityFor(sector string) float64 {
	if v, ok := s.Liquidity[sector]; ok {
		return v
	}
	return s.DefaultLiquidity
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
