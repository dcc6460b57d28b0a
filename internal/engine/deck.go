package engine

// Card is the theme card drawn for each news round. It paces how dramatic
// a reaction feels without revealing market direction, and is safe to show
// to players.
type Card struct {
	Rank   string `json:"rank"`
	Suit   string `json:"suit"`
	IsFace bool   `json:"is_face"`
	IsAce  bool   `json:"is_ace"`
}

var (
	deckSuits = []string{"♠", "♥", "♦", "♣"}
	deckRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// deck is a shuffled 52-card deck; one card is drawn per news round and
// the deck reshuffles when exhausted.
type deck struct {
	cards []Card
	next  int
}

func newDeck(rng Source) *deck {
	d := &deck{}
	d.shuffle(rng)
	return d
}

func (d *deck) shuffle(rng Source) {
	d.cards = d.cards[:0]
	for _, s := range deckSuits {
		for _, r := range deckRanks {
			d.cards = append(d.cards, Card{
				Rank:   r,
				Suit:   s,
				IsFace: r == "J" || r == "Q" || r == "K",
				IsAce:  r == "A",
			})
		}
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.next = 0
}

func (d *deck) draw(rng Source) Card {
	if d.next >= len(d.cards) {
		d.shuffle(rng)
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// cardMultipliers maps a round card to jump/trend/vol scale factors.
// Aces read as headline shocks, face cards as drama, numbers stay calm.
func cardMultipliers(c Card) (jump, trend, vol float64) {
	switch {
	case c.IsAce:
		return 1.25, 1.15, 1.35
	case c.IsFace:
		return 1.15, 1.10, 1.20
	default:
		return 1.0, 1.0, 1.0
	}
}
