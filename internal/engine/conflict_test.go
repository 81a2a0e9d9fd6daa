package engine_test

import (
	"testing"

	"duel/internal/engine"
)

func newTrack() *engine.Track {
	r := engine.DefaultRules()
	return engine.NewTrack(r.TrackLength, r.Markers, r.Tiers)
}

func TestTrackMarkersFireOnce(t *testing.T) {
	tr := newTrack()
	zero, far := ledger(20), ledger(20)

	tr.Apply(-3, zero, far)
	for range 5 {
		tr.Apply(6, zero, far)
		tr.Apply(-6, zero, far)
	}
	if zero.Coins != 18 {
		t.Fatalf("expected a single 2-coin penalty, got %d coins", zero.Coins)
	}
	if far.Coins != 18 {
		t.Fatalf("crossing back to the other side should fire its marker once, got %d", far.Coins)
	}
	if tr.MarkerLive(engine.SideZero, 0) || !tr.MarkerLive(engine.SideZero, 1) {
		t.Fatal("only the first near-zero marker should be consumed")
	}
}

func TestTrackPenaltyClampsCoins(t *testing.T) {
	tr := newTrack()
	zero, far := ledger(1), ledger(0)
	_, fired := tr.Apply(-6, zero, far)
	if len(fired) != 2 {
		t.Fatalf("expected both markers to fire, got %v", fired)
	}
	if zero.Coins != 0 {
		t.Fatalf("coins should clamp at zero, got %d", zero.Coins)
	}
}

func TestTrackSupremacy(t *testing.T) {
	tr := newTrack()
	zero, far := ledger(0), ledger(0)
	if over, _ := tr.Apply(-8, zero, far); over {
		t.Fatal("pawn at 1 is not a capital")
	}
	over, _ := tr.Apply(-5, zero, far)
	if !over || tr.Position() != 0 {
		t.Fatalf("expected clamp at 0 and supremacy, pos=%d", tr.Position())
	}
	side, ok := tr.Winner()
	if !ok || side != engine.SideMax {
		t.Fatalf("pawn at 0 should hand the win to SideMax, got %v %v", side, ok)
	}
}

func TestTrackMilitaryScore(t *testing.T) {
	tests := []struct {
		delta int
		zero  int
		max   int
	}{
		{0, 0, 0},
		{1, 2, 0},
		{2, 2, 0},
		{3, 5, 0},
		{5, 5, 0},
		{6, 10, 0},
		{-4, 0, 5},
		{-7, 0, 10},
	}
	for _, tt := range tests {
		tr := newTrack()
		tr.Apply(tt.delta, ledger(0), ledger(0))
		if got := tr.MilitaryScore(engine.SideZero); got != tt.zero {
			t.Errorf("delta %d: SideZero score %d, want %d", tt.delta, got, tt.zero)
		}
		if got := tr.MilitaryScore(engine.SideMax); got != tt.max {
			t.Errorf("delta %d: SideMax score %d, want %d", tt.delta, got, tt.max)
		}
	}
}
