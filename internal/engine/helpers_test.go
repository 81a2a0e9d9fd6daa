package engine_test

import (
	"fmt"
	"testing"

	"duel/internal/engine"
)

// fixtureDeck is an in-memory deck factory. Unshuffled, slot i of each
// age's layout receives the i-th card of that age.
type fixtureDeck struct {
	cards   []engine.Card
	wonders []engine.Wonder
}

func (d fixtureDeck) Cards() []engine.Card     { return d.cards }
func (d fixtureDeck) Wonders() []engine.Wonder { return d.wonders }

func noShuffle(int, func(i, j int)) {}

func filler(age, n int) []engine.Card {
	out := make([]engine.Card, n)
	for i := range out {
		out[i] = engine.Card{Name: fmt.Sprintf("Filler %d-%d", age, i), Age: age, Color: engine.Grey}
	}
	return out
}

// newDeck builds a full deck whose ages start with the given cards and are
// padded with free grey filler. Age III gets three guilds last.
func newDeck(ages map[int][]engine.Card, wonders []engine.Wonder) fixtureDeck {
	var d fixtureDeck
	for age := 1; age <= 3; age++ {
		size := engine.LayoutSize
		if age == 3 {
			size -= 3
		}
		cards := append([]engine.Card(nil), ages[age]...)
		for i := range cards {
			cards[i].Age = age
		}
		cards = append(cards, filler(age, size-len(cards))...)
		d.cards = append(d.cards, cards...)
	}
	for i := range 3 {
		d.cards = append(d.cards, engine.Card{
			Name:  fmt.Sprintf("Guild %d", i),
			Age:   3,
			Color: engine.Purple,
		})
	}
	if wonders == nil {
		for i := range 8 {
			wonders = append(wonders, engine.Wonder{Name: fmt.Sprintf("Wonder %d", i), Points: 2})
		}
	}
	d.wonders = wonders
	return d
}

func newTestMatch(t *testing.T, deck fixtureDeck) *engine.Match {
	t.Helper()
	return newTestMatchRules(t, deck, engine.DefaultRules())
}

func newTestMatchRules(t *testing.T, deck fixtureDeck, rules engine.Rules) *engine.Match {
	t.Helper()
	players := [2]*engine.Player{
		engine.NewPlayer("A", "Player1"),
		engine.NewPlayer("B", "Player2"),
	}
	cfg := engine.DefaultConfig(deck)
	cfg.Rules = rules
	cfg.Shuffle = noShuffle
	m, err := engine.NewMatch(players, cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if _, err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return m
}

func hasEvent(events []engine.Event, typ engine.EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func cards(age int) []engine.Card {
	return filler(age, engine.LayoutSize)
}
