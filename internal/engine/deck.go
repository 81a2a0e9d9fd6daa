package engine

import (
	"fmt"
	"math/rand/v2"
)

// Deck is a stack of cards for one age.
type Deck struct {
	cards []Card
}

// NewDeck creates a deck from the given cards, shuffled with shuffle.
func NewDeck(cards []Card, shuffle func(n int, swap func(i, j int))) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Draw removes and returns the top n cards. Returns fewer if deck is short.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn
}

// seededShuffle returns a deterministic shuffle for seed.
func seededShuffle(seed uint64) func(n int, swap func(i, j int)) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Shuffle
}

// ageDeal lists the cards dealt into one age's layout.
func ageDeal(pool []Card, age, guilds int, shuffle func(n int, swap func(i, j int))) ([]Card, error) {
	var regular, purple []Card
	for _, c := range pool {
		if c.Age != age {
			continue
		}
		if c.Color == Purple {
			purple = append(purple, c)
		} else {
			regular = append(regular, c)
		}
	}
	if age != 3 {
		guilds = 0
		regular = append(regular, purple...)
	}
	if len(purple) < guilds {
		return nil, fmt.Errorf("%w: age %d has %d guilds, need %d", ErrConfiguration, age, len(purple), guilds)
	}
	if len(regular) < LayoutSize-guilds {
		return nil, fmt.Errorf("%w: age %d has %d cards, need %d",
			ErrConfiguration, age, len(regular), LayoutSize-guilds)
	}

	dealt := NewDeck(regular, shuffle).Draw(LayoutSize - guilds)
	dealt = append(dealt, NewDeck(purple, shuffle).Draw(guilds)...)
	return NewDeck(dealt, shuffle).Draw(LayoutSize), nil
}
