package engine

import (
	"maps"
	"slices"
)

// Reason explains why a quote is not buildable.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUntradable
	ReasonInsufficientFunds
)

func (r Reason) String() string {
	switch r {
	case ReasonUntradable:
		return "requires a resource that cannot be bought"
	case ReasonInsufficientFunds:
		return "not enough coins"
	}
	return ""
}

// Quote is the outcome of a cost resolution.
type Quote struct {
	Buildable   bool `json:"buildable"`
	FreeByChain bool `json:"free_by_chain"`
	// Coins is the total charge: direct coin cost plus trade.
	Coins int `json:"coins"`
	// TradeCoins is the part of Coins paid for bought resources.
	TradeCoins int              `json:"trade_coins"`
	Shortfall  map[Resource]int `json:"shortfall,omitempty"`
	Reason     Reason           `json:"-"`
}

// TradePrice is what buyer pays the bank for one unit of r.
func TradePrice(buyer, seller *Player, r Resource) int {
	if p, ok := buyer.TradeOverride[r]; ok {
		return p
	}
	return 2 + seller.Production[r]
}

// Resolve computes whether buyer can build card, and for how much, given the
// opponent seller. It never mutates either player.
func Resolve(buyer, seller *Player, card Card) Quote {
	if card.Requires != "" && buyer.HasLink(card.Requires) {
		return Quote{Buildable: true, FreeByChain: true}
	}
	extra := 0
	if card.Color == Blue && buyer.HasToken(Masonry) {
		extra = discountWildcards
	}
	return resolveCost(buyer, seller, card.Cost, extra)
}

// ResolveWonder is Resolve for a wonder cost. Wonders have no chain.
func ResolveWonder(buyer, seller *Player, w *Wonder) Quote {
	extra := 0
	if buyer.HasToken(Architecture) {
		extra = discountWildcards
	}
	return resolveCost(buyer, seller, w.Cost, extra)
}

// ExecuteBuild re-resolves the card cost and charges the buyer on success.
func ExecuteBuild(buyer, seller *Player, card Card) (Quote, bool) {
	return charge(buyer, Resolve(buyer, seller, card))
}

// ExecuteWonder re-resolves the wonder cost and charges the buyer on success.
func ExecuteWonder(buyer, seller *Player, w *Wonder) (Quote, bool) {
	return charge(buyer, ResolveWonder(buyer, seller, w))
}

func charge(buyer *Player, q Quote) (Quote, bool) {
	if !q.Buildable || !buyer.SpendCoins(q.Coins) {
		return q, false
	}
	return q, true
}

// resolveCost runs the shortage/wildcard/trade pipeline. extraWild adds
// options covering every tradable resource.
func resolveCost(buyer, seller *Player, cost Cost, extraWild int) Quote {
	q := Quote{Coins: cost.Coins()}

	shortage := make(map[Resource]int)
	for r, need := range cost {
		if r == Coin || need <= 0 {
			continue
		}
		if short := need - buyer.Production[r]; short > 0 {
			shortage[r] = short
		}
	}

	options := buyer.Wildcards
	for i := 0; i < extraWild; i++ {
		options = append(options[:len(options):len(options)], TradableResources())
	}
	for _, r := range coverWildcards(options, shortage, func(r Resource) int {
		return TradePrice(buyer, seller, r)
	}) {
		shortage[r]--
	}

	for _, r := range slices.Sorted(maps.Keys(shortage)) {
		short := shortage[r]
		if short <= 0 {
			continue
		}
		if q.Shortfall == nil {
			q.Shortfall = make(map[Resource]int)
		}
		q.Shortfall[r] = short
		if !r.Tradable() {
			q.Reason = ReasonUntradable
			return q
		}
		trade := TradePrice(buyer, seller, r) * short
		q.Coins += trade
		q.TradeCoins += trade
	}

	if buyer.Coins < q.Coins {
		q.Reason = ReasonInsufficientFunds
		return q
	}
	q.Buildable = true
	return q
}

// coverWildcards assigns each wildcard option to at most one unit of
// shortage so that the covered units are worth the most coins. Units are
// offered dearest first and each one is placed by an augmenting path over
// the options, which yields a maximum-weight assignment. It returns the
// covered resources, one entry per unit.
func coverWildcards(options [][]Resource, shortage map[Resource]int, price func(Resource) int) []Resource {
	if len(options) == 0 {
		return nil
	}
	var units []Resource
	for _, r := range slices.Sorted(maps.Keys(shortage)) {
		if !r.Tradable() {
			continue
		}
		for range shortage[r] {
			units = append(units, r)
		}
	}
	slices.SortStableFunc(units, func(a, b Resource) int { return price(b) - price(a) })

	owner := make([]int, len(options)) // option -> unit index, -1 when free
	for i := range owner {
		owner[i] = -1
	}
	var place func(u int, seen []bool) bool
	place = func(u int, seen []bool) bool {
		for o, opt := range options {
			if seen[o] || !slices.Contains(opt, units[u]) {
				continue
			}
			seen[o] = true
			if owner[o] < 0 || place(owner[o], seen) {
				owner[o] = u
				return true
			}
		}
		return false
	}
	var covered []Resource
	for u := range units {
		if place(u, make([]bool, len(options))) {
			covered = append(covered, units[u])
		}
	}
	return covered
}
