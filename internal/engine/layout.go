package engine

import (
	"fmt"
	"slices"
)

// Layout owns one age's card slots and their unlock graph.
type Layout struct {
	age      int
	topo     Topology
	cards    []*Card
	faceUp   []bool
	supports [][]int // slot -> slots it supports
	pending  []int   // outstanding supporters per slot
	takeable map[int]struct{}
	left     int
}

// NewLayout deals deck into the age's topology. The deck must hold exactly
// LayoutSize cards; slot i receives deck[i].
func NewLayout(age int, deck []Card) (*Layout, error) {
	topo, ok := TopologyFor(age)
	if !ok {
		return nil, fmt.Errorf("%w: no layout for age %d", ErrConfiguration, age)
	}
	if len(deck) != LayoutSize {
		return nil, fmt.Errorf("%w: age %d layout needs %d cards, got %d",
			ErrConfiguration, age, LayoutSize, len(deck))
	}

	l := &Layout{
		age:      age,
		topo:     topo,
		cards:    make([]*Card, LayoutSize),
		faceUp:   make([]bool, LayoutSize),
		supports: make([][]int, LayoutSize),
		pending:  make([]int, LayoutSize),
		takeable: make(map[int]struct{}),
		left:     LayoutSize,
	}
	for i := range deck {
		c := deck[i]
		l.cards[i] = &c
	}
	for _, e := range topo.Edges {
		l.supports[e[0]] = append(l.supports[e[0]], e[1])
		l.pending[e[1]]++
	}
	for row, slots := range topo.Rows {
		for _, s := range slots {
			l.faceUp[s] = topo.RowFaceUp[row]
		}
	}
	for s := range LayoutSize {
		if l.pending[s] == 0 {
			l.takeable[s] = struct{}{}
			l.faceUp[s] = true
		}
	}
	return l, nil
}

// Age returns the age this layout was built for.
func (l *Layout) Age() int { return l.age }

// Topology returns the slot graph, for rendering.
func (l *Layout) Topology() Topology { return l.topo }

// Takeable returns the current frontier in ascending order.
func (l *Layout) Takeable() []int {
	out := make([]int, 0, len(l.takeable))
	for s := range l.takeable {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// IsTakeable reports whether slot is on the frontier.
func (l *Layout) IsTakeable(slot int) bool {
	_, ok := l.takeable[slot]
	return ok
}

// Peek returns the card in slot without touching the layout.
func (l *Layout) Peek(slot int) (Card, error) {
	if slot < 0 || slot >= LayoutSize || l.cards[slot] == nil {
		return Card{}, fmt.Errorf("%w: slot %d is empty", ErrInvalidSlot, slot)
	}
	return *l.cards[slot], nil
}

// FaceUp reports whether the card in slot is visible.
func (l *Layout) FaceUp(slot int) bool {
	return slot >= 0 && slot < LayoutSize && l.faceUp[slot]
}

// Empty reports whether slot has been taken.
func (l *Layout) Empty(slot int) bool {
	return slot < 0 || slot >= LayoutSize || l.cards[slot] == nil
}

// Pending returns how many supporters of slot are still in place.
func (l *Layout) Pending(slot int) int {
	if slot < 0 || slot >= LayoutSize {
		return 0
	}
	return l.pending[slot]
}

// Take removes the card from a takeable slot and unlocks its dependents.
func (l *Layout) Take(slot int) (Card, error) {
	if !l.IsTakeable(slot) {
		return Card{}, fmt.Errorf("%w: slot %d is not takeable", ErrInvalidSlot, slot)
	}
	c := *l.cards[slot]
	l.cards[slot] = nil
	delete(l.takeable, slot)
	l.left--

	for _, dep := range l.supports[slot] {
		if l.pending[dep] == 0 {
			continue
		}
		l.pending[dep]--
		if l.pending[dep] == 0 && l.cards[dep] != nil {
			l.takeable[dep] = struct{}{}
			l.faceUp[dep] = true
		}
	}
	return c, nil
}

// Remaining counts slots still holding a card.
func (l *Layout) Remaining() int { return l.left }

// Exhausted reports whether every card has been taken.
func (l *Layout) Exhausted() bool { return l.left == 0 }
