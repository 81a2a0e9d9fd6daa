// Package bot is a presenter that picks uniformly among legal choices.
package bot

import (
	"errors"
	"math/rand/v2"

	"duel/internal/engine"
	"duel/internal/play"
)

var errNoChoice = errors.New("bot: nothing to choose from")

// Bot is a seeded random player.
type Bot struct {
	rng *rand.Rand
}

func New(seed uint64) *Bot {
	return &Bot{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (b *Bot) ChooseSlot(_ engine.PlayerViewData, slots []int) (int, error) {
	if len(slots) == 0 {
		return 0, errNoChoice
	}
	return slots[b.rng.IntN(len(slots))], nil
}

// ChooseAction picks among the available actions. Discard is always
// available on a takeable slot.
func (b *Bot) ChooseAction(_ engine.PlayerViewData, _ int, options []play.ActionOption) (play.ActionKind, error) {
	var legal []play.ActionKind
	for _, o := range options {
		if o.Available {
			legal = append(legal, o.Kind)
		}
	}
	if len(legal) == 0 {
		return 0, errNoChoice
	}
	return legal[b.rng.IntN(len(legal))], nil
}

func (b *Bot) ChooseWonder(_ engine.PlayerViewData, wonders []play.WonderOption) (int, error) {
	var legal []int
	for _, w := range wonders {
		if w.Available {
			legal = append(legal, w.Index)
		}
	}
	if len(legal) == 0 {
		return 0, errNoChoice
	}
	return legal[b.rng.IntN(len(legal))], nil
}

func (b *Bot) ChooseProgressToken(_ engine.PlayerViewData, tokens []engine.ProgressToken) (engine.ProgressToken, error) {
	if len(tokens) == 0 {
		return 0, errNoChoice
	}
	return tokens[b.rng.IntN(len(tokens))], nil
}

func (b *Bot) ChooseCard(_ engine.PlayerViewData, _ engine.EffectKind, cards []engine.Card) (int, error) {
	if len(cards) == 0 {
		return 0, errNoChoice
	}
	return b.rng.IntN(len(cards)), nil
}

func (b *Bot) Notify([]engine.Event) {}

func (b *Bot) Rejected(error) {}
