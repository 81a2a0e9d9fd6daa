package engine

import (
	"fmt"
	"strings"
)

// Card is an immutable card descriptor. Ownership moves exactly once, from
// the layout to a player's city or to the discard pile.
type Card struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Color Color  `json:"color"`
	Cost  Cost   `json:"cost,omitempty"`

	Points  int     `json:"points,omitempty"`
	Shields int     `json:"shields,omitempty"`
	Science Science `json:"science,omitempty"`
	Coins   int     `json:"coins,omitempty"`

	Provides LinkSymbol `json:"provides,omitempty"`
	Requires LinkSymbol `json:"requires,omitempty"`

	Produces       map[Resource]int `json:"produces,omitempty"`
	ProducesChoice []Resource       `json:"produces_choice,omitempty"`
	TradeDiscount  []Resource       `json:"trade_discount,omitempty"`

	Special *SpecialReward `json:"special,omitempty"`
	Effects []Effect       `json:"effects,omitempty"`
}

// SpecialReward pays coins and points per matching card (or per built
// wonder), counted when the card is applied.
type SpecialReward struct {
	Colors    []Color `json:"colors,omitempty"`
	Wonders   bool    `json:"wonders,omitempty"`
	CoinsPer  int     `json:"coins_per,omitempty"`
	PointsPer int     `json:"points_per,omitempty"`
	// MaxOfBoth counts both cities and takes the larger count.
	MaxOfBoth bool `json:"max_of_both,omitempty"`
}

// count returns how many things the reward is paid for.
func (r *SpecialReward) count(self, opponent *Player) int {
	tally := func(p *Player) int {
		n := 0
		if r.Wonders {
			n += p.WondersBuilt()
		}
		for _, c := range r.Colors {
			n += p.ColorCount(c)
		}
		return n
	}
	n := tally(self)
	if r.MaxOfBoth {
		n = max(n, tally(opponent))
	}
	return n
}

// EffectKind enumerates the one-off effects not covered by structured fields.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectExtraTurn
	EffectDestroyCard
	EffectBuildFromDiscard
	EffectProgressToken
	EffectProgressFromBox
	EffectOpponentLosesCoins
)

var effectNames = map[EffectKind]string{
	EffectNone:               "none",
	EffectExtraTurn:          "extra_turn",
	EffectDestroyCard:        "destroy_card",
	EffectBuildFromDiscard:   "build_from_discard",
	EffectProgressToken:      "progress_token",
	EffectProgressFromBox:    "progress_from_box",
	EffectOpponentLosesCoins: "opponent_loses_coins",
}

func (k EffectKind) String() string {
	if s, ok := effectNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseEffectKind resolves an effect name as written in catalog files.
func ParseEffectKind(s string) (EffectKind, error) {
	for k, name := range effectNames {
		if k != EffectNone && strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return EffectNone, fmt.Errorf("unknown effect %q", s)
}

// Effect is a tagged effect descriptor.
//
//	destroy_card:          Color is the opponent card color to remove
//	progress_from_box:     Amount is how many boxed tokens are offered
//	opponent_loses_coins:  Amount is the coin loss
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Color  Color      `json:"color,omitempty"`
	Amount int        `json:"amount,omitempty"`
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectDestroyCard:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Color)
	case EffectProgressFromBox, EffectOpponentLosesCoins:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Amount)
	}
	return e.Kind.String()
}

func hasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EffectKind) UnmarshalText(b []byte) error {
	v, err := ParseEffectKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
