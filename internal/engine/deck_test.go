package engine

import "testing"

func TestDeck_FiftyTwoUniqueCards(t *testing.T) {
	d := newDeck(&stubSource{})

	if len(d.cards) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(d.cards))
	}

	seen := make(map[Card]bool, 52)
	for i := 0; i < 52; i++ {
		c := d.draw(&stubSource{})
		if seen[c] {
			t.Fatalf("duplicate card drawn: %+v", c)
		}
		seen[c] = true
	}
}

func TestDeck_ReshufflesWhenExhausted(t *testing.T) {
	src := &stubSource{}
	d := newDeck(src)

	for i := 0; i < 52; i++ {
		d.draw(src)
	}
	// The 53rd draw must come from a fresh deck rather than panic.
	c := d.draw(src)
	if c.Rank == "" || c.Suit == "" {
		t.Fatalf("draw after reshuffle returned zero card: %+v", c)
	}
	if d.next != 1 {
		t.Errorf("expected draw cursor reset, got %d", d.next)
	}
}

func TestCard_FaceAndAceFlags(t *testing.T) {
	d := newDeck(&stubSource{})

	for _, c := range d.cards {
		wantFace := c.Rank == "J" || c.Rank == "Q" || c.Rank == "K"
		if c.IsFace != wantFace {
			t.Errorf("card %+v: face flag wrong", c)
		}
		if c.IsAce != (c.Rank == "A") {
			t.Errorf("card %+v: ace flag wrong", c)
		}
	}
}

func TestCardMultipliers(t *testing.T) {
	tests := []struct {
		name             string
		card             Card
		jump, trend, vol float64
	}{
		{"ace", Card{Rank: "A", IsAce: true}, 1.25, 1.15, 1.35},
		{"face", Card{Rank: "Q", IsFace: true}, 1.15, 1.10, 1.20},
		{"number", Card{Rank: "7"}, 1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, tr, v := cardMultipliers(tt.card)
			if j != tt.jump || tr != tt.trend || v != tt.vol {
				t.Errorf("got %v %v %v, want %v %v %v", j, tr, v, tt.jump, tt.trend, tt.vol)
			}
		})
	}
}
