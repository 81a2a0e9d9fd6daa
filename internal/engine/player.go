package engine

import "slices"

// Player holds one side's ledger and city.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Coins  int    `json:"coins"`
	Points int    `json:"points"`

	Production    map[Resource]int `json:"production"`
	Wildcards     [][]Resource     `json:"wildcards,omitempty"`
	TradeOverride map[Resource]int `json:"trade_override,omitempty"`

	Built   []Card              `json:"built"`
	Links   map[LinkSymbol]bool `json:"-"`
	Science map[Science]int     `json:"-"`
	Wonders []*Wonder           `json:"wonders"`
	Tokens  []ProgressToken     `json:"tokens,omitempty"`
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		Production:    make(map[Resource]int),
		TradeOverride: make(map[Resource]int),
		Links:         make(map[LinkSymbol]bool),
		Science:       make(map[Science]int),
	}
}

// AddCoins changes the balance, clamping at zero. It returns the amount
// actually applied.
func (p *Player) AddCoins(n int) int {
	if p.Coins+n < 0 {
		n = -p.Coins
	}
	p.Coins += n
	return n
}

// SpendCoins deducts n coins if the balance allows it.
func (p *Player) SpendCoins(n int) bool {
	if n < 0 || p.Coins < n {
		return false
	}
	p.Coins -= n
	return true
}

// ColorCount counts built cards of the given color.
func (p *Player) ColorCount(c Color) int {
	n := 0
	for _, card := range p.Built {
		if card.Color == c {
			n++
		}
	}
	return n
}

// HasCard reports whether a card with the given name is in the city.
func (p *Player) HasCard(name string) bool {
	for _, card := range p.Built {
		if card.Name == name {
			return true
		}
	}
	return false
}

// HasLink reports whether the player owns a chain symbol.
func (p *Player) HasLink(s LinkSymbol) bool {
	return s != "" && p.Links[s]
}

// DistinctScience is the number of different science symbols owned.
func (p *Player) DistinctScience() int {
	n := 0
	for _, c := range p.Science {
		if c > 0 {
			n++
		}
	}
	return n
}

// WondersBuilt counts constructed wonders.
func (p *Player) WondersBuilt() int {
	n := 0
	for _, w := range p.Wonders {
		if w.Built {
			n++
		}
	}
	return n
}

// HasToken reports whether the player owns a progress token.
func (p *Player) HasToken(t ProgressToken) bool {
	return slices.Contains(p.Tokens, t)
}

// addCard registers a card in the city along with its permanent production.
func (p *Player) addCard(c Card) {
	p.Built = append(p.Built, c)
	for r, n := range c.Produces {
		p.Production[r] += n
	}
	if len(c.ProducesChoice) > 0 {
		p.Wildcards = append(p.Wildcards, slices.Clone(c.ProducesChoice))
	}
	for _, r := range c.TradeDiscount {
		p.TradeOverride[r] = 1
	}
	if c.Provides != "" {
		p.Links[c.Provides] = true
	}
}

// removeCard takes a built card out of the city and reverts its production.
func (p *Player) removeCard(name string) (Card, bool) {
	idx := slices.IndexFunc(p.Built, func(c Card) bool { return c.Name == name })
	if idx < 0 {
		return Card{}, false
	}
	c := p.Built[idx]
	p.Built = slices.Delete(p.Built, idx, idx+1)
	for r, n := range c.Produces {
		p.Production[r] -= n
	}
	if len(c.ProducesChoice) > 0 {
		if i := slices.IndexFunc(p.Wildcards, func(w []Resource) bool {
			return slices.Equal(w, c.ProducesChoice)
		}); i >= 0 {
			p.Wildcards = slices.Delete(p.Wildcards, i, i+1)
		}
	}
	if c.Provides != "" && !slices.ContainsFunc(p.Built, func(o Card) bool { return o.Provides == c.Provides }) {
		delete(p.Links, c.Provides)
	}
	return c, true
}

// cardsOfColor lists built cards of one color in build order.
func (p *Player) cardsOfColor(c Color) []Card {
	var out []Card
	for _, card := range p.Built {
		if card.Color == c {
			out = append(out, card)
		}
	}
	return out
}
