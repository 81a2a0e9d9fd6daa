package engine

import "slices"

// Marker is a one-shot coin penalty placed Offset steps from the center on
// each side of the conflict track.
type Marker struct {
	Offset int `yaml:"offset" json:"offset"`
	Coins  int `yaml:"coins" json:"coins"`
}

// Tier awards Points once the pawn is at least Distance steps into the
// opposing half.
type Tier struct {
	Distance int `yaml:"distance" json:"distance"`
	Points   int `yaml:"points" json:"points"`
}

// Side names a player's end of the track.
type Side int

const (
	// SideZero is the player whose capital sits at position 0.
	SideZero Side = iota
	// SideMax is the player whose capital sits at the last position.
	SideMax
)

// Track is the shared military board.
type Track struct {
	max      int
	pos      int
	markers  []Marker
	tiers    []Tier
	consumed [2][]bool
}

// NewTrack places the pawn at the midpoint of [0, last].
func NewTrack(last int, markers []Marker, tiers []Tier) *Track {
	tiers = slices.Clone(tiers)
	slices.SortFunc(tiers, func(a, b Tier) int { return a.Distance - b.Distance })
	t := &Track{
		max:     last,
		pos:     last / 2,
		markers: slices.Clone(markers),
		tiers:   tiers,
	}
	t.consumed[SideZero] = make([]bool, len(markers))
	t.consumed[SideMax] = make([]bool, len(markers))
	return t
}

// Position returns the pawn position.
func (t *Track) Position() int { return t.pos }

// Max returns the last position on the track.
func (t *Track) Max() int { return t.max }

// Center returns the starting position.
func (t *Track) Center() int { return t.max / 2 }

// MarkerLive reports whether side's i-th marker is still on the board.
func (t *Track) MarkerLive(side Side, i int) bool {
	return i >= 0 && i < len(t.markers) && !t.consumed[side][i]
}

// Markers returns the marker table.
func (t *Track) Markers() []Marker { return t.markers }

// Penalty records one fired marker.
type Penalty struct {
	Side  Side
	Coins int
}

// Apply moves the pawn by delta. Negative motion pushes toward nearZero's
// capital and fires that side's unconsumed markers the pawn reaches;
// positive motion mirrors it for nearMax. It reports whether the pawn
// reached either capital.
func (t *Track) Apply(delta int, nearZero, nearMax *Player) (bool, []Penalty) {
	t.pos = min(max(t.pos+delta, 0), t.max)
	center := t.Center()

	var fired []Penalty
	for i, m := range t.markers {
		switch {
		case delta < 0 && !t.consumed[SideZero][i] && t.pos <= center-m.Offset:
			t.consumed[SideZero][i] = true
			nearZero.AddCoins(-m.Coins)
			fired = append(fired, Penalty{Side: SideZero, Coins: m.Coins})
		case delta > 0 && !t.consumed[SideMax][i] && t.pos >= center+m.Offset:
			t.consumed[SideMax][i] = true
			nearMax.AddCoins(-m.Coins)
			fired = append(fired, Penalty{Side: SideMax, Coins: m.Coins})
		}
	}
	return t.Supremacy(), fired
}

// Supremacy reports whether the pawn sits on a capital.
func (t *Track) Supremacy() bool {
	return t.pos == 0 || t.pos == t.max
}

// Winner returns the side whose opponent's capital was reached.
func (t *Track) Winner() (Side, bool) {
	switch t.pos {
	case t.max:
		return SideZero, true
	case 0:
		return SideMax, true
	}
	return 0, false
}

// Leader returns the side the pawn has advanced for, if any.
func (t *Track) Leader() (Side, bool) {
	switch c := t.Center(); {
	case t.pos > c:
		return SideZero, true
	case t.pos < c:
		return SideMax, true
	}
	return 0, false
}

// MilitaryScore returns end-of-game points for side.
func (t *Track) MilitaryScore(side Side) int {
	dist := t.pos - t.Center()
	if side == SideMax {
		dist = -dist
	}
	if dist <= 0 {
		return 0
	}
	pts := 0
	for _, tier := range t.tiers {
		if dist >= tier.Distance {
			pts = tier.Points
		}
	}
	return pts
}
