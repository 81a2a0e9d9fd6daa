package history_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"duel/internal/engine"
	"duel/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := history.Open(filepath.Join(t.TempDir(), "history.db"), log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(winner int, v engine.Victory) *engine.Result {
	r := &engine.Result{
		Winner:  winner,
		Victory: v,
		Scores: [2]engine.ScoreEntry{
			{PlayerID: "A", PlayerName: "Ada", Points: 10, Total: 14},
			{PlayerID: "B", PlayerName: "Bo", Points: 8, Total: 9},
		},
	}
	if winner >= 0 {
		r.WinnerID = r.Scores[winner].PlayerID
	}
	return r
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, "m1", result(0, engine.VictoryCivilian)); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "m2", result(-1, engine.VictoryCivilian)); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "m3", result(1, engine.VictoryMilitary)); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].MatchID != "m3" || got[1].MatchID != "m2" {
		t.Errorf("order = %s, %s; want m3, m2", got[0].MatchID, got[1].MatchID)
	}
	if got[0].Victory != "military" || got[0].WinnerID != "B" {
		t.Errorf("m3 = %+v", got[0])
	}
	if !got[1].Draw() {
		t.Error("m2 should be a draw")
	}
	if got[0].Scores[0].PlayerName != "Ada" || got[0].Scores[0].Total != 14 {
		t.Errorf("scores not decoded: %+v", got[0].Scores)
	}
}

func TestRecordTwiceKeepsFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, "m1", result(0, engine.VictoryScience)); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, "m1", result(1, engine.VictoryMilitary)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Victory != "science" {
		t.Fatalf("got %+v", got)
	}
	tally, err := s.TallyFor(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if tally.Played != 1 || tally.Won != 1 {
		t.Errorf("tally = %+v, want 1 played 1 won", tally)
	}
}

func TestTally(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i, w := range []int{0, 1, 0, -1} {
		id := string(rune('a' + i))
		if err := s.Record(ctx, id, result(w, engine.VictoryCivilian)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		player      string
		played, won int
	}{
		{"A", 4, 2},
		{"B", 4, 1},
		{"nobody", 0, 0},
	}
	for _, tt := range tests {
		got, err := s.TallyFor(ctx, tt.player)
		if err != nil {
			t.Fatal(err)
		}
		if got.Played != tt.played || got.Won != tt.won {
			t.Errorf("%s: tally = %+v, want %d/%d", tt.player, got, tt.played, tt.won)
		}
	}
}

func TestRecordUnfinished(t *testing.T) {
	s := openStore(t)
	if err := s.Record(context.Background(), "m1", nil); !errors.Is(err, history.ErrUnfinished) {
		t.Fatalf("err = %v, want ErrUnfinished", err)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := history.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(context.Background(), "m1", result(0, engine.VictoryCivilian)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = history.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d after reopen, want 1", len(got))
	}
}
