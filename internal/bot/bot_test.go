package bot_test

import (
	"context"
	"testing"

	"duel/internal/bot"
	"duel/internal/catalog"
	"duel/internal/engine"
	"duel/internal/play"
)

func playOut(t *testing.T, seed uint64) *engine.Result {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	players := [2]*engine.Player{engine.NewPlayer("A", "Ada"), engine.NewPlayer("B", "Bo")}
	cfg := engine.DefaultConfig(c)
	cfg.Seed = seed
	m, err := engine.NewMatch(players, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	r, err := play.Run(context.Background(), m, [2]play.Presenter{bot.New(seed), bot.New(seed + 100)}, nil)
	if err != nil {
		t.Fatalf("seed %d: %v", seed, err)
	}
	return r
}

func TestBotsFinishMatches(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		r := playOut(t, seed)
		if r == nil || r.Victory == engine.VictoryNone {
			t.Fatalf("seed %d: no result", seed)
		}
		if !r.Draw() && r.WinnerID != "A" && r.WinnerID != "B" {
			t.Fatalf("seed %d: unexpected winner %q", seed, r.WinnerID)
		}
	}
}

func TestBotIsDeterministic(t *testing.T) {
	a, b := playOut(t, 42), playOut(t, 42)
	if a.Winner != b.Winner || a.Victory != b.Victory || a.Scores != b.Scores {
		t.Fatalf("same seed gave different results: %+v vs %+v", a, b)
	}
}

func TestBotPicksOnlyLegalOptions(t *testing.T) {
	b := bot.New(3)
	opts := []play.ActionOption{
		{Kind: play.Build, Available: false},
		{Kind: play.Discard, Available: true},
		{Kind: play.Wonder, Available: false},
	}
	for range 50 {
		k, err := b.ChooseAction(engine.PlayerViewData{}, 0, opts)
		if err != nil || k != play.Discard {
			t.Fatalf("expected discard, got %v %v", k, err)
		}
	}
	wonders := []play.WonderOption{{Index: 0}, {Index: 1, Available: true}}
	for range 50 {
		if i, err := b.ChooseWonder(engine.PlayerViewData{}, wonders); err != nil || i != 1 {
			t.Fatalf("expected wonder 1, got %d %v", i, err)
		}
	}
	if _, err := b.ChooseSlot(engine.PlayerViewData{}, nil); err == nil {
		t.Fatal("expected error with no slots")
	}
}
