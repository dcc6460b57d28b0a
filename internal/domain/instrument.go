package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Instrument is the static per-ticker metadata loaded at startup.
// Instruments are immutable after load.
type Instrument struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Sector     string  `json:"sector"`
	StartPrice float64 `json:"start_price"`
}

// InstrumentSet is the read-only registry of tradable instruments,
// keyed by ticker. It preserves file order for stable iteration.
type InstrumentSet struct {
	list     []Instrument
	byTicker map[string]Instrument
}

// NewInstrumentSet validates and indexes a list of instruments.
func NewInstrumentSet(list []Instrument) (*InstrumentSet, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("instrument list is empty")
	}

	byTicker := make(map[string]Instrument, len(list))
	for i, ins := range list {
		if ins.Ticker == "" {
			return nil, fmt.Errorf("instrument %d: ticker is required", i)
		}
		if ins.Sector == "" {
			return nil, fmt.Errorf("instrument %q: sector is required", ins.Ticker)
		}
		if ins.StartPrice <= 0 {
			return nil, fmt.Errorf("instrument %q: start_price must be > 0, got %v", ins.Ticker, ins.StartPrice)
		}
		if _, dup := byTicker[ins.Ticker]; dup {
			return nil, fmt.Errorf("instrument %q: duplicate ticker", ins.Ticker)
		}
		byTicker[ins.Ticker] = ins
	}

	return &InstrumentSet{list: list, byTicker: byTicker}, nil
}

// LoadInstruments reads and validates the instrument list from a JSON file.
func LoadInstruments(path string) (*InstrumentSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instruments: %w", err)
	}

	var list []Instrument
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse instruments: %w", err)
	}

	return NewInstrumentSet(list)
}

// Get retrieves an instrument by ticker. It returns ErrUnknownTicker
// if the ticker is not registered.
func (s *InstrumentSet) Get(ticker string) (Instrument, error) {
	ins, ok := s.byTicker[ticker]
	if !ok {
		return Instrument{}, ErrUnknownTicker
	}
	return ins, nil
}

// Exists returns true if the ticker is registered.
func (s *InstrumentSet) Exists(ticker string) bool {
	_, ok := s.byTicker[ticker]
	return ok
}

// All returns the instruments in file order. The returned slice is a copy.
func (s *InstrumentSet) All() []Instrument {
	out := make([]Instrument, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of registered instruments.
func (s *InstrumentSet) Len() int {
	return len(s.list)
}

// Sectors returns the distinct sector names, sorted.
func (s *InstrumentSet) Sectors() []string {
	seen := make(map[string]bool)
	for _, ins := range s.list {
		seen[ins.Sector] = true
	}
	out := make([]string, 0, len(seen))
	for sec := range seen {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}
