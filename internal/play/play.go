// Package play drives a match through presenters: one decision per Step,
// until game over in Run.
package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"duel/internal/engine"
)

// ActionKind is what to do with a chosen slot. The values double as the
// console action codes.
type ActionKind int

const (
	Build   ActionKind = 1
	Discard ActionKind = 2
	Wonder  ActionKind = 3
)

var actionNames = map[ActionKind]string{
	Build:   "build",
	Discard: "discard",
	Wonder:  "wonder",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return "unknown"
}

// ActionOption describes one action on a slot. Coins is the charge for a
// build or the gain for a discard.
type ActionOption struct {
	Kind      ActionKind
	Available bool
	Coins     int
	Reason    string
}

// WonderOption describes one of the player's wonders.
type WonderOption struct {
	Index     int
	Name      string
	Available bool
	Coins     int
	Reason    string
}

// Presenter is the input/output side of one seat. Choose methods block until
// the seat decides; Notify and Rejected only report.
type Presenter interface {
	ChooseSlot(view engine.PlayerViewData, slots []int) (int, error)
	ChooseAction(view engine.PlayerViewData, slot int, options []ActionOption) (ActionKind, error)
	ChooseWonder(view engine.PlayerViewData, wonders []WonderOption) (int, error)
	ChooseProgressToken(view engine.PlayerViewData, tokens []engine.ProgressToken) (engine.ProgressToken, error)
	ChooseCard(view engine.PlayerViewData, kind engine.EffectKind, cards []engine.Card) (int, error)
	Notify(events []engine.Event)
	Rejected(err error)
}

// ErrInput wraps failures reported by a presenter, such as closed input.
var ErrInput = errors.New("presenter input")

// maxRejections bounds retries for a seat that keeps choosing illegal moves.
const maxRejections = 64

// Options lists the three actions for slot as seen by playerID.
func Options(m *engine.Match, playerID string, slot int) []ActionOption {
	me := m.GetPlayer(playerID)
	build := ActionOption{Kind: Build}
	if q, err := m.Quote(playerID, slot); err != nil {
		build.Reason = err.Error()
	} else {
		build.Available = q.Buildable
		build.Coins = q.Coins
		build.Reason = q.Reason.String()
	}

	discard := ActionOption{Kind: Discard}
	if l := m.Layout(); l != nil {
		discard.Available = l.IsTakeable(slot)
	}
	if me != nil {
		discard.Coins = m.Config.Rules.DiscardBase + me.ColorCount(engine.Yellow)
	}

	wonder := ActionOption{Kind: Wonder, Reason: "no wonder can be built"}
	for _, w := range WonderOptions(m, playerID) {
		if w.Available {
			wonder.Available = true
			wonder.Reason = ""
			break
		}
	}
	return []ActionOption{build, discard, wonder}
}

// WonderOptions lists the player's wonders with their current quotes.
func WonderOptions(m *engine.Match, playerID string) []WonderOption {
	me := m.GetPlayer(playerID)
	if me == nil {
		return nil
	}
	out := make([]WonderOption, 0, len(me.Wonders))
	for i, w := range me.Wonders {
		opt := WonderOption{Index: i, Name: w.Name}
		q, err := m.WonderQuote(playerID, i)
		switch {
		case err != nil:
			opt.Reason = err.Error()
		default:
			opt.Available = q.Buildable
			opt.Coins = q.Coins
			opt.Reason = q.Reason.String()
		}
		out = append(out, opt)
	}
	return out
}

// Step asks the presenter of the current player for one decision and applies
// it. Presenter failures are wrapped in ErrInput; engine rejections are
// returned as is and leave the match unchanged.
func Step(m *engine.Match, p Presenter) ([]engine.Event, error) {
	if m.Over() {
		return nil, engine.ErrGameOver
	}
	id := m.Current().ID
	view := m.ViewFor(id)

	switch m.Phase() {
	case engine.PhaseAwaitingAction:
		slots := m.Layout().Takeable()
		slot, err := p.ChooseSlot(view, slots)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		if !slices.Contains(slots, slot) {
			return nil, fmt.Errorf("%w: slot %d is not takeable", engine.ErrInvalidSlot, slot)
		}
		kind, err := p.ChooseAction(view, slot, Options(m, id, slot))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		switch kind {
		case Build:
			return m.BuildCard(id, slot)
		case Discard:
			return m.DiscardForCoins(id, slot)
		case Wonder:
			idx, err := p.ChooseWonder(view, WonderOptions(m, id))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInput, err)
			}
			return m.BuildWonder(id, idx, slot)
		}
		return nil, fmt.Errorf("%w: action code %d", engine.ErrInvalidAction, kind)

	case engine.PhaseChooseToken:
		tok, err := p.ChooseProgressToken(view, m.Choice().Tokens)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		return m.ChooseProgressToken(id, tok)

	case engine.PhaseChooseDestroy, engine.PhaseChooseDiscard:
		c := m.Choice()
		idx, err := p.ChooseCard(view, c.Kind, c.Cards)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		return m.ChooseCard(id, idx)
	}
	return nil, engine.ErrWrongPhase
}

// Run steps the match until it is over. Rejected actions are reported to the
// acting seat, which then decides again. Each distinct presenter is notified
// of every event batch once.
func Run(ctx context.Context, m *engine.Match, seats [2]Presenter, log *slog.Logger) (*engine.Result, error) {
	if log == nil {
		log = slog.Default()
	}
	rejections := 0
	for !m.Over() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seat := 0
		if m.Current() == m.Players[1] {
			seat = 1
		}
		events, err := Step(m, seats[seat])
		if err != nil {
			if errors.Is(err, ErrInput) {
				return nil, err
			}
			rejections++
			log.Debug("action rejected", "match", m.ID, "player", m.Current().ID, "err", err)
			if rejections >= maxRejections {
				return nil, fmt.Errorf("seat %d: too many rejected actions: %w", seat, err)
			}
			seats[seat].Rejected(err)
			continue
		}
		rejections = 0
		notify(seats, events)
	}
	r := m.Result()
	log.Info("match over", "match", m.ID, "winner", r.WinnerID, "victory", r.Victory.String())
	return r, nil
}

func notify(seats [2]Presenter, events []engine.Event) {
	seats[0].Notify(events)
	if seats[1] != seats[0] {
		seats[1].Notify(events)
	}
}
