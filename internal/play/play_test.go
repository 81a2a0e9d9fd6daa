package play_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"duel/internal/bot"
	"duel/internal/catalog"
	"duel/internal/engine"
	"duel/internal/play"
)

type move struct {
	slot int
	kind play.ActionKind
}

// scripted replays fixed moves and records what it was told.
type scripted struct {
	moves    []move
	kind     play.ActionKind
	events   int
	rejected []error
}

func (s *scripted) ChooseSlot(_ engine.PlayerViewData, _ []int) (int, error) {
	if len(s.moves) == 0 {
		return 0, io.EOF
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	s.kind = m.kind
	return m.slot, nil
}

func (s *scripted) ChooseAction(engine.PlayerViewData, int, []play.ActionOption) (play.ActionKind, error) {
	return s.kind, nil
}

func (s *scripted) ChooseWonder(engine.PlayerViewData, []play.WonderOption) (int, error) {
	return 0, nil
}

func (s *scripted) ChooseProgressToken(_ engine.PlayerViewData, tokens []engine.ProgressToken) (engine.ProgressToken, error) {
	return tokens[0], nil
}

func (s *scripted) ChooseCard(engine.PlayerViewData, engine.EffectKind, []engine.Card) (int, error) {
	return 0, nil
}

func (s *scripted) Notify(events []engine.Event) { s.events += len(events) }

func (s *scripted) Rejected(err error) { s.rejected = append(s.rejected, err) }

func newMatch(t *testing.T) *engine.Match {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	players := [2]*engine.Player{engine.NewPlayer("A", "Ada"), engine.NewPlayer("B", "Bo")}
	cfg := engine.DefaultConfig(c)
	cfg.Shuffle = func(int, func(i, j int)) {}
	m, err := engine.NewMatch(players, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestOptions(t *testing.T) {
	m := newMatch(t)
	opts := play.Options(m, "A", 1)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	if !opts[0].Available || opts[0].Coins != 1 {
		t.Errorf("logging camp should cost 1 coin, got %+v", opts[0])
	}
	if !opts[1].Available || opts[1].Coins != 2 {
		t.Errorf("discard should pay 2, got %+v", opts[1])
	}
	if opts[2].Available {
		t.Errorf("no starting wonder is affordable, got %+v", opts[2])
	}
	if ws := play.WonderOptions(m, "A"); len(ws) != 4 || ws[0].Reason == "" {
		t.Errorf("expected 4 unaffordable wonders, got %+v", ws)
	}
}

func TestOptionsBeforeStart(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	players := [2]*engine.Player{engine.NewPlayer("A", "Ada"), engine.NewPlayer("B", "Bo")}
	m, err := engine.NewMatch(players, engine.DefaultConfig(c))
	if err != nil {
		t.Fatal(err)
	}

	for _, o := range play.Options(m, "A", 0) {
		if o.Available {
			t.Errorf("%s should be unavailable before the match starts", o.Kind)
		}
	}
	if _, err := play.Step(m, &scripted{moves: []move{{0, play.Build}}}); !errors.Is(err, engine.ErrWrongPhase) {
		t.Fatalf("err = %v, want ErrWrongPhase", err)
	}
}

func TestStep(t *testing.T) {
	m := newMatch(t)
	p := &scripted{moves: []move{{0, play.Build}}}
	events, err := play.Step(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || m.Current().ID != "B" {
		t.Fatal("step should build and pass the turn")
	}
	if !m.Players[0].HasCard("Lumber Yard") {
		t.Fatal("lumber yard should be built")
	}
}

func TestStepRejectsCoveredSlot(t *testing.T) {
	m := newMatch(t)
	p := &scripted{moves: []move{{12, play.Build}}}
	if _, err := play.Step(m, p); !errors.Is(err, engine.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
	if m.Layout().Remaining() != engine.LayoutSize {
		t.Fatal("rejection must not touch the layout")
	}
}

func TestStepWrapsPresenterErrors(t *testing.T) {
	m := newMatch(t)
	if _, err := play.Step(m, &scripted{}); !errors.Is(err, play.ErrInput) || !errors.Is(err, io.EOF) {
		t.Fatalf("expected ErrInput wrapping EOF, got %v", err)
	}
}

func TestRunRetriesRejectedActions(t *testing.T) {
	m := newMatch(t)
	a := &scripted{moves: []move{{12, play.Build}, {0, play.Build}}}
	b := &scripted{}
	_, err := play.Run(context.Background(), m, [2]play.Presenter{a, b}, nil)
	if !errors.Is(err, play.ErrInput) {
		t.Fatalf("expected B to run out of input, got %v", err)
	}
	if len(a.rejected) != 1 || !errors.Is(a.rejected[0], engine.ErrInvalidSlot) {
		t.Fatalf("expected one ErrInvalidSlot rejection, got %v", a.rejected)
	}
	if a.events == 0 || a.events != b.events {
		t.Fatalf("both seats should see the same events, got %d and %d", a.events, b.events)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newMatch(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := play.Run(ctx, m, [2]play.Presenter{bot.New(1), bot.New(2)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunToGameOver(t *testing.T) {
	m := newMatch(t)
	r, err := play.Run(context.Background(), m, [2]play.Presenter{bot.New(5), bot.New(6)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Over() || r != m.Result() {
		t.Fatal("run should stop at game over with the match result")
	}
	if _, err := play.Step(m, bot.New(7)); !errors.Is(err, engine.ErrGameOver) {
		t.Fatalf("expected ErrGameOver after the end, got %v", err)
	}
}
