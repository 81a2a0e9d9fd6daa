package engine

import (
	"maps"
	"slices"
)

// SlotView is one layout slot as anyone at the table sees it. Card is nil
// for empty and face-down slots.
type SlotView struct {
	Slot     int   `json:"slot"`
	Row      int   `json:"row"`
	Empty    bool  `json:"empty"`
	FaceUp   bool  `json:"face_up"`
	Takeable bool  `json:"takeable"`
	Age      int   `json:"age"`
	Card     *Card `json:"card,omitempty"`
}

// MarkerView is one military penalty marker. Side is the player it charges.
type MarkerView struct {
	Side     int  `json:"side"`
	Position int  `json:"position"`
	Coins    int  `json:"coins"`
	Live     bool `json:"live"`
}

// PublicPlayerData is the open information about one player.
type PublicPlayerData struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Coins      int              `json:"coins"`
	Points     int              `json:"points"`
	Production map[Resource]int `json:"production"`
	Wildcards  [][]Resource     `json:"wildcards,omitempty"`
	Colors     map[Color]int    `json:"colors"`
	Science    []Science        `json:"science,omitempty"`
	Links      []LinkSymbol     `json:"links,omitempty"`
	Built      []string         `json:"built"`
	Wonders    []Wonder         `json:"wonders"`
	Tokens     []ProgressToken  `json:"tokens,omitempty"`
}

// PublicViewData is the match state visible to spectators.
type PublicViewData struct {
	ID           string             `json:"id"`
	Phase        string             `json:"phase"`
	Age          int                `json:"age"`
	Current      string             `json:"current,omitempty"`
	Pawn         int                `json:"pawn"`
	TrackMax     int                `json:"track_max"`
	Markers      []MarkerView       `json:"markers,omitempty"`
	Slots        []SlotView         `json:"slots"`
	Players      []PublicPlayerData `json:"players"`
	BoardTokens  []ProgressToken    `json:"board_tokens"`
	DiscardCount int                `json:"discard_count"`
	WondersBuilt int                `json:"wonders_built"`
	Result       *Result            `json:"result,omitempty"`
}

// PublicView returns the match state visible to everyone. Face-down cards
// are hidden.
func (m *Match) PublicView() PublicViewData {
	pv := PublicViewData{
		ID:           m.ID,
		Phase:        m.phase.String(),
		Age:          m.age,
		BoardTokens:  m.board.list(),
		DiscardCount: len(m.discard),
		WondersBuilt: m.wonders,
		Result:       m.result,
	}
	if m.phase != PhaseSetup {
		pv.Current = m.Players[m.current].ID
	}
	if m.track != nil {
		pv.Pawn = m.track.Position()
		pv.TrackMax = m.track.Max()
		for i, mk := range m.track.Markers() {
			c := m.track.Center()
			pv.Markers = append(pv.Markers,
				MarkerView{Side: int(SideZero), Position: c - mk.Offset, Coins: mk.Coins, Live: m.track.MarkerLive(SideZero, i)},
				MarkerView{Side: int(SideMax), Position: c + mk.Offset, Coins: mk.Coins, Live: m.track.MarkerLive(SideMax, i)},
			)
		}
	}
	if m.layout != nil {
		topo := m.layout.Topology()
		for s := range LayoutSize {
			sv := SlotView{
				Slot:     s,
				Row:      topo.Row(s),
				Empty:    m.layout.Empty(s),
				FaceUp:   m.layout.FaceUp(s),
				Takeable: m.layout.IsTakeable(s),
				Age:      m.age,
			}
			if !sv.Empty && sv.FaceUp {
				c, _ := m.layout.Peek(s)
				sv.Card = &c
			}
			pv.Slots = append(pv.Slots, sv)
		}
	}

	for _, p := range m.Players {
		ppd := PublicPlayerData{
			ID:         p.ID,
			Name:       p.Name,
			Coins:      p.Coins,
			Points:     p.Points,
			Production: maps.Clone(p.Production),
			Wildcards:  p.Wildcards,
			Colors:     make(map[Color]int),
			Tokens:     slices.Clone(p.Tokens),
		}
		for _, c := range p.Built {
			ppd.Colors[c.Color]++
			ppd.Built = append(ppd.Built, c.Name)
		}
		for sym, n := range p.Science {
			if n > 0 {
				ppd.Science = append(ppd.Science, sym)
			}
		}
		slices.Sort(ppd.Science)
		for l, ok := range p.Links {
			if ok {
				ppd.Links = append(ppd.Links, l)
			}
		}
		slices.Sort(ppd.Links)
		for _, w := range p.Wonders {
			ppd.Wonders = append(ppd.Wonders, *w)
		}
		pv.Players = append(pv.Players, ppd)
	}
	return pv
}

// PlayerViewData is the match as one player sees it: the public state plus
// the quotes and pending choice for their turn.
type PlayerViewData struct {
	PublicViewData
	IsMyTurn     bool          `json:"is_my_turn"`
	Quotes       map[int]Quote `json:"quotes,omitempty"`
	WonderQuotes map[int]Quote `json:"wonder_quotes,omitempty"`
	Choice       *Choice       `json:"choice,omitempty"`
}

// ViewFor returns the state visible to a specific player.
func (m *Match) ViewFor(playerID string) PlayerViewData {
	pv := PlayerViewData{
		PublicViewData: m.PublicView(),
	}
	p := m.GetPlayer(playerID)
	if p == nil || m.phase == PhaseSetup || m.phase == PhaseGameOver {
		return pv
	}
	pv.IsMyTurn = m.Players[m.current].ID == playerID
	if !pv.IsMyTurn {
		return pv
	}

	switch m.phase {
	case PhaseAwaitingAction:
		pv.Quotes = make(map[int]Quote)
		for _, s := range m.layout.Takeable() {
			if q, err := m.Quote(playerID, s); err == nil {
				pv.Quotes[s] = q
			}
		}
		for i := range p.Wonders {
			if q, err := m.WonderQuote(playerID, i); err == nil {
				if pv.WonderQuotes == nil {
					pv.WonderQuotes = make(map[int]Quote)
				}
				pv.WonderQuotes[i] = q
			}
		}
	default:
		pv.Choice = m.Choice()
	}
	return pv
}
