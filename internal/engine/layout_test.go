package engine_test

import (
	"errors"
	"testing"

	"duel/internal/engine"
)

func TestLayoutOpenRow(t *testing.T) {
	tests := []struct {
		age  int
		open int
	}{
		{1, 6},
		{2, 2},
		{3, 2},
	}
	for _, tt := range tests {
		l, err := engine.NewLayout(tt.age, cards(tt.age))
		if err != nil {
			t.Fatalf("age %d: %v", tt.age, err)
		}
		if got := len(l.Takeable()); got != tt.open {
			t.Errorf("age %d: expected %d open slots, got %d", tt.age, tt.open, got)
		}
		if got := l.Topology().OpenRowSize(); got != tt.open {
			t.Errorf("age %d: open row size %d, want %d", tt.age, got, tt.open)
		}
	}
}

func TestLayoutEverySlotReachable(t *testing.T) {
	for age := 1; age <= 3; age++ {
		l, err := engine.NewLayout(age, cards(age))
		if err != nil {
			t.Fatal(err)
		}
		entered := make(map[int]int)
		for _, s := range l.Takeable() {
			entered[s]++
		}
		taken := 0
		for !l.Exhausted() {
			frontier := l.Takeable()
			if len(frontier) == 0 {
				t.Fatalf("age %d: stuck with %d cards left", age, l.Remaining())
			}
			slot := frontier[len(frontier)-1]
			if _, err := l.Take(slot); err != nil {
				t.Fatalf("age %d: take %d: %v", age, slot, err)
			}
			taken++
			for _, s := range l.Takeable() {
				if !containsInt(frontier, s) {
					entered[s]++
				}
			}
			for s := range engine.LayoutSize {
				if l.Pending(s) < 0 {
					t.Fatalf("age %d: slot %d pending went negative", age, s)
				}
			}
		}
		if taken != engine.LayoutSize {
			t.Errorf("age %d: took %d cards, want %d", age, taken, engine.LayoutSize)
		}
		for s := range engine.LayoutSize {
			if entered[s] != 1 {
				t.Errorf("age %d: slot %d entered the frontier %d times", age, s, entered[s])
			}
		}
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func TestLayoutTakeUnlocks(t *testing.T) {
	l, _ := engine.NewLayout(1, cards(1))
	if l.IsTakeable(6) {
		t.Fatal("slot 6 should start covered")
	}
	if l.FaceUp(6) {
		t.Fatal("second row of age I should start face-down")
	}
	if !l.FaceUp(11) {
		t.Fatal("third row of age I should start face-up")
	}

	if _, err := l.Take(0); err != nil {
		t.Fatal(err)
	}
	if l.Pending(6) != 1 || l.IsTakeable(6) {
		t.Fatalf("slot 6 should wait on slot 1, pending=%d", l.Pending(6))
	}
	if _, err := l.Take(1); err != nil {
		t.Fatal(err)
	}
	if !l.IsTakeable(6) || !l.FaceUp(6) {
		t.Fatal("slot 6 should be takeable and face-up once both supporters are gone")
	}
	if l.IsTakeable(7) {
		t.Fatal("slot 7 still rests on slot 2")
	}
}

func TestLayoutErrors(t *testing.T) {
	if _, err := engine.NewLayout(1, cards(1)[:19]); !errors.Is(err, engine.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for short deck, got %v", err)
	}
	if _, err := engine.NewLayout(4, cards(1)); !errors.Is(err, engine.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for age 4, got %v", err)
	}

	l, _ := engine.NewLayout(2, cards(2))
	if _, err := l.Take(19); !errors.Is(err, engine.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for covered slot, got %v", err)
	}
	if _, err := l.Peek(20); !errors.Is(err, engine.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for out of range peek, got %v", err)
	}
	if _, err := l.Take(0); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Take(0); !errors.Is(err, engine.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for taken slot, got %v", err)
	}
	if _, err := l.Peek(0); !errors.Is(err, engine.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for empty peek, got %v", err)
	}
	if !l.Empty(0) || l.Remaining() != 19 {
		t.Fatalf("expected slot 0 empty and 19 remaining, got %d", l.Remaining())
	}
}

func TestLayoutPeekDoesNotMutate(t *testing.T) {
	l, _ := engine.NewLayout(3, cards(3))
	c, err := l.Peek(0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Filler 3-0" {
		t.Fatalf("slot 0 should hold the first dealt card, got %s", c.Name)
	}
	if l.Empty(0) || !l.IsTakeable(0) || l.Remaining() != engine.LayoutSize {
		t.Fatal("peek changed the layout")
	}
}
