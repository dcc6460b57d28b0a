package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Direction is the intended market direction of a news event.
// It is internal: player-facing reads must never carry it.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Sign returns +1 for UP and -1 for DOWN.
func (d Direction) Sign() float64 {
	if d == DirectionDown {
		return -1.0
	}
	return 1.0
}

// Intensity is the magnitude tier of a news event. Internal only.
type Intensity string

const (
	IntensityLow    Intensity = "LOW"
	IntensityMedium Intensity = "MEDIUM"
	IntensityHigh   Intensity = "HIGH"
)

// NewsEvent is one entry in the static news catalogue. Headline, summary,
// body, and bullets are public; direction, intensity, and targeting are
// operator-only.
type NewsEvent struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Bullets   []string  `json:"bullets"`
	Direction Direction `json:"direction"`
	Intensity Intensity `json:"intensity"`
	Sectors   []string  `json:"sectors"`
	Tickers   []string  `json:"tickers"`
}

// PublicNews is the player-safe projection of a news event. It must never
// include direction, intensity, or targeting hints.
type PublicNews struct {
	ID       string   `json:"id"`
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Bullets  []string `json:"bullets"`
}

// Public returns the redacted, player-safe view of the event.
func (n NewsEvent) Public() PublicNews {
	bullets := n.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	return PublicNews{
		ID:       n.ID,
		Headline: n.Headline,
		Summary:  n.Summary,
		Body:     n.Body,
		Bullets:  bullets,
	}
}

// Catalogue is the read-only set of scripted news events, keyed by ID.
type Catalogue struct {
	events []NewsEvent
	byID   map[string]NewsEvent
}

// NewCatalogue validates and indexes a list of news events.
func NewCatalogue(events []NewsEvent) (*Catalogue, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("news catalogue is empty")
	}

	byID := make(map[string]NewsEvent, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			return nil, fmt.Errorf("news %d: id is required", i)
		}
		if _, dup := byID[ev.ID]; dup {
			return nil, fmt.Errorf("news %q: duplicate id", ev.ID)
		}

		// Direction and intensity are stored normalized so downstream
		// comparisons can rely on the canonical upper-case values.
		ev.Direction = Direction(strings.ToUpper(string(ev.Direction)))
		ev.Intensity = Intensity(strings.ToUpper(string(ev.Intensity)))
		switch ev.Direction {
		case DirectionUp, DirectionDown:
		default:
			return nil, fmt.Errorf("news %q: direction must be UP or DOWN, got %q", ev.ID, ev.Direction)
		}
		switch ev.Intensity {
		case IntensityLow, IntensityMedium, IntensityHigh:
		default:
			return nil, fmt.Errorf("news %q: intensity must be LOW, MEDIUM, or HIGH, got %q", ev.ID, ev.Intensity)
		}
		if len(ev.Sectors) == 0 && len(ev.Tickers) == 0 {
			return nil, fmt.Errorf("news %q: at least one sector or ticker target is required", ev.ID)
		}

		events[i] = ev
		byID[ev.ID] = ev
	}

	return &Catalogue{events: events, byID: byID}, nil
}

// LoadCatalogue reads and validates the news catalogue from a JSON file.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read news catalogue: %w", err)
	}

	var events []NewsEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse news catalogue: %w", err)
	}

	return NewCatalogue(events)
}

// Get retrieves an event by ID. It returns ErrNewsNotFound if absent.
func (c *Catalogue) Get(id string) (NewsEvent, error) {
	ev, ok := c.byID[id]
	if !ok {
		return NewsEvent{}, ErrNewsNotFound
	}
	return ev, nil
}

// All returns the events in file order. The returned slice is a copy.
func (c *Catalogue) All() []NewsEvent {
	out := make([]NewsEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Len returns the number of catalogued events.
func (c *Catalogue) Len() int {
	return len(c.events)
}

// At returns the event at index i. It is used with an external random
// index draw to trigger a random round.
func (c *Catalogue) At(i int) NewsEvent {
	return c.events[i]
}
