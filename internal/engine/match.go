package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrConfiguration      = errors.New("invalid configuration")
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrInsufficientFunds  = errors.New("cannot afford")
	ErrInvalidWonderState = errors.New("invalid wonder state")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrWrongPhase         = errors.New("wrong phase for this action")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrPlayerNotFound     = errors.New("player not found")
)

// Choice is a decision the current player owes before the turn continues.
type Choice struct {
	Kind   EffectKind      `json:"kind"`
	Player string          `json:"player"`
	Color  Color           `json:"color,omitempty"`
	Tokens []ProgressToken `json:"tokens,omitempty"`
	Cards  []Card          `json:"cards,omitempty"`
}

type queued struct {
	seat   int
	effect Effect
}

// Match holds the entire state of one duel.
type Match struct {
	ID      string      `json:"id"`
	Players [2]*Player  `json:"players"`
	Config  MatchConfig `json:"-"`

	phase     MatchPhase
	age       int
	current   int
	extraTurn bool
	layout    *Layout
	track     *Track
	discard   []Card
	board     tokenPool
	box       tokenPool
	queue     []queued
	choice    *Choice
	wonders   int
	result    *Result
	shuffle   func(n int, swap func(i, j int))
}

func noShuffle(int, func(i, j int)) {}

// NewMatch validates the configuration and seats two players. Player 0
// takes the first turn.
func NewMatch(players [2]*Player, cfg MatchConfig) (*Match, error) {
	if players[0] == nil || players[1] == nil {
		return nil, fmt.Errorf("%w: two players required", ErrConfiguration)
	}
	if players[0].ID == players[1].ID {
		return nil, fmt.Errorf("%w: duplicate player id %q", ErrConfiguration, players[0].ID)
	}
	if cfg.Deck == nil {
		return nil, fmt.Errorf("%w: no deck", ErrConfiguration)
	}
	r := cfg.Rules
	if r.TrackLength < 2 || r.TrackLength%2 != 0 {
		return nil, fmt.Errorf("%w: track length %d must be even and positive", ErrConfiguration, r.TrackLength)
	}
	for _, mk := range r.Markers {
		if mk.Offset <= 0 || mk.Offset >= r.TrackLength/2 {
			return nil, fmt.Errorf("%w: marker offset %d outside track", ErrConfiguration, mk.Offset)
		}
	}
	if r.ScienceTarget <= 0 || r.MaxWonders < 0 || r.BoardTokens < 0 {
		return nil, fmt.Errorf("%w: negative or zero limits", ErrConfiguration)
	}

	pool := cfg.Deck.Cards()
	for age := 1; age <= 3; age++ {
		if _, err := ageDeal(pool, age, r.GuildsPerMatch, noShuffle); err != nil {
			return nil, err
		}
	}

	shuffle := cfg.Shuffle
	if shuffle == nil {
		shuffle = seededShuffle(cfg.Seed)
	}
	return &Match{
		ID:      uuid.NewString(),
		Players: players,
		Config:  cfg,
		phase:   PhaseSetup,
		shuffle: shuffle,
	}, nil
}

// Start deals wonders, progress tokens and the age I layout.
func (m *Match) Start() ([]Event, error) {
	if m.phase != PhaseSetup {
		return nil, ErrWrongPhase
	}
	r := m.Config.Rules
	for _, p := range m.Players {
		p.Coins = r.StartingCoins
	}
	m.track = NewTrack(r.TrackLength, r.Markers, r.Tiers)

	wonders := m.Config.Deck.Wonders()
	m.shuffle(len(wonders), func(i, j int) { wonders[i], wonders[j] = wonders[j], wonders[i] })
	for i := 0; i < 2*r.WondersPerPlayer && i < len(wonders); i++ {
		w := wonders[i]
		w.Built = false
		m.Players[i%2].Wonders = append(m.Players[i%2].Wonders, &w)
	}

	tokens := AllProgressTokens()
	m.shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })
	m.box = tokenPool{tokens: tokens}
	m.board = tokenPool{tokens: m.box.draw(r.BoardTokens)}

	if err := m.dealLayout(1); err != nil {
		return nil, err
	}
	m.current = 0
	m.phase = PhaseAwaitingAction

	events := []Event{{Type: EventMatchStart, Data: map[string]interface{}{
		"match":  m.ID,
		"tokens": m.board.list(),
	}}}
	return append(events, m.ageStart()...), nil
}

func (m *Match) dealLayout(age int) error {
	deck, err := ageDeal(m.Config.Deck.Cards(), age, m.Config.Rules.GuildsPerMatch, m.shuffle)
	if err != nil {
		return err
	}
	l, err := NewLayout(age, deck)
	if err != nil {
		return err
	}
	m.age = age
	m.layout = l
	return nil
}

// Apply is the single entry point for player actions.
func (m *Match) Apply(playerID string, action Action) ([]Event, error) {
	switch action.Type {
	case ActionBuild:
		return m.BuildCard(playerID, action.Slot)
	case ActionDiscard:
		return m.DiscardForCoins(playerID, action.Slot)
	case ActionWonder:
		return m.BuildWonder(playerID, action.Wonder, action.Slot)
	case ActionChooseToken:
		return m.ChooseProgressToken(playerID, action.Token)
	case ActionChooseCard:
		return m.ChooseCard(playerID, action.Index)
	default:
		return nil, ErrInvalidAction
	}
}

// turnOf validates that playerID may act now and returns their seat.
func (m *Match) turnOf(playerID string, phases ...MatchPhase) (int, error) {
	if m.phase == PhaseGameOver {
		return -1, ErrGameOver
	}
	seat := m.seat(playerID)
	if seat < 0 {
		return -1, ErrPlayerNotFound
	}
	if !slices.Contains(phases, m.phase) {
		return -1, ErrWrongPhase
	}
	if seat != m.current {
		return -1, ErrNotYourTurn
	}
	return seat, nil
}

// BuildCard takes the card in slot into the player's city. The cost is
// settled before the layout is touched, so a rejection changes nothing.
func (m *Match) BuildCard(playerID string, slot int) ([]Event, error) {
	seat, err := m.turnOf(playerID, PhaseAwaitingAction)
	if err != nil {
		return nil, err
	}
	if !m.layout.IsTakeable(slot) {
		return nil, fmt.Errorf("%w: slot %d is not takeable", ErrInvalidSlot, slot)
	}
	card, err := m.layout.Peek(slot)
	if err != nil {
		return nil, err
	}
	me, opp := m.Players[seat], m.Players[1-seat]
	q, ok := ExecuteBuild(me, opp, card)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s", ErrInsufficientFunds, card.Name, q.Reason)
	}
	if _, err := m.layout.Take(slot); err != nil {
		return nil, err
	}

	events := []Event{{Type: EventCardBuilt, Player: playerID, Data: map[string]interface{}{
		"card":  card.Name,
		"slot":  slot,
		"cost":  q.Coins,
		"chain": q.FreeByChain,
	}}}
	events = append(events, m.payTrade(seat, q)...)
	if q.FreeByChain && me.HasToken(Urbanism) {
		events = append(events, m.gain(seat, urbanismChainBonus, Urbanism.String()))
	}
	events = append(events, m.applyCard(seat, card)...)
	return m.settle(events)
}

// DiscardForCoins sells the card in slot to the bank. It always ends the
// turn, even when an extra turn was pending.
func (m *Match) DiscardForCoins(playerID string, slot int) ([]Event, error) {
	seat, err := m.turnOf(playerID, PhaseAwaitingAction)
	if err != nil {
		return nil, err
	}
	card, err := m.layout.Take(slot)
	if err != nil {
		return nil, err
	}
	me := m.Players[seat]
	m.discard = append(m.discard, card)
	m.extraTurn = false

	events := []Event{
		{Type: EventCardDiscarded, Player: playerID, Data: map[string]interface{}{
			"card": card.Name,
			"slot": slot,
		}},
		m.gain(seat, m.Config.Rules.DiscardBase+me.ColorCount(Yellow), "discard"),
	}
	ev, err := m.endTurn()
	return append(events, ev...), err
}

// BuildWonder constructs one of the player's wonders, using the card in slot
// as its foundation. The foundation card leaves the game.
func (m *Match) BuildWonder(playerID string, wonder, slot int) ([]Event, error) {
	seat, err := m.turnOf(playerID, PhaseAwaitingAction)
	if err != nil {
		return nil, err
	}
	me, opp := m.Players[seat], m.Players[1-seat]
	w, err := m.buildableWonder(me, wonder)
	if err != nil {
		return nil, err
	}
	if m.layout.Empty(slot) {
		return nil, fmt.Errorf("%w: slot %d has no foundation card", ErrInvalidWonderState, slot)
	}
	if !m.layout.IsTakeable(slot) {
		return nil, fmt.Errorf("%w: slot %d is not takeable", ErrInvalidSlot, slot)
	}
	q, ok := ExecuteWonder(me, opp, w)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s", ErrInsufficientFunds, w.Name, q.Reason)
	}
	foundation, err := m.layout.Take(slot)
	if err != nil {
		return nil, err
	}
	w.Built = true
	m.wonders++
	me.Points += w.Points

	events := []Event{{Type: EventWonderBuilt, Player: playerID, Data: map[string]interface{}{
		"wonder":     w.Name,
		"slot":       slot,
		"foundation": foundation.Name,
		"cost":       q.Coins,
	}}}
	events = append(events, m.payTrade(seat, q)...)
	if w.Coins > 0 {
		events = append(events, m.gain(seat, w.Coins, w.Name))
	}
	if len(w.ProducesChoice) > 0 {
		me.Wildcards = append(me.Wildcards, slices.Clone(w.ProducesChoice))
	}
	if w.Shields > 0 {
		events = append(events, m.military(seat, w.Shields)...)
	}
	m.enqueue(seat, w.Effects)
	if me.HasToken(Theology) && !w.GrantsExtraTurn() {
		m.enqueue(seat, []Effect{{Kind: EffectExtraTurn}})
	}
	if m.wonders == m.Config.Rules.MaxWonders {
		events = append(events, Event{Type: EventWondersClosed, Data: map[string]interface{}{"built": m.wonders}})
	}
	return m.settle(events)
}

func (m *Match) buildableWonder(p *Player, idx int) (*Wonder, error) {
	if idx < 0 || idx >= len(p.Wonders) {
		return nil, fmt.Errorf("%w: no wonder %d", ErrInvalidWonderState, idx)
	}
	w := p.Wonders[idx]
	if w.Built {
		return nil, fmt.Errorf("%w: %s is already built", ErrInvalidWonderState, w.Name)
	}
	if m.wonders >= m.Config.Rules.MaxWonders {
		return nil, fmt.Errorf("%w: %d wonders already built", ErrInvalidWonderState, m.wonders)
	}
	return w, nil
}

// ChooseProgressToken resolves a pending token choice.
func (m *Match) ChooseProgressToken(playerID string, token ProgressToken) ([]Event, error) {
	seat, err := m.turnOf(playerID, PhaseChooseToken)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(m.choice.Tokens, token) {
		return nil, fmt.Errorf("%w: %s is not on offer", ErrInvalidChoice, token)
	}
	if m.choice.Kind == EffectProgressFromBox {
		m.box.remove(token)
	} else {
		m.board.remove(token)
	}
	m.choice = nil
	m.phase = PhaseAwaitingAction
	return m.settle(m.gainToken(seat, token))
}

// ChooseCard resolves a pending destroy or build-from-discard choice. index
// points into the offered cards.
func (m *Match) ChooseCard(playerID string, index int) ([]Event, error) {
	seat, err := m.turnOf(playerID, PhaseChooseDestroy, PhaseChooseDiscard)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(m.choice.Cards) {
		return nil, fmt.Errorf("%w: no card %d", ErrInvalidChoice, index)
	}
	card := m.choice.Cards[index]
	kind := m.choice.Kind
	m.choice = nil
	m.phase = PhaseAwaitingAction

	var events []Event
	switch kind {
	case EffectDestroyCard:
		opp := m.Players[1-seat]
		if removed, ok := opp.removeCard(card.Name); ok {
			m.discard = append(m.discard, removed)
		}
		events = append(events, Event{Type: EventCardDestroyed, Player: opp.ID, Data: map[string]interface{}{
			"card": card.Name,
		}})
	case EffectBuildFromDiscard:
		if i := slices.IndexFunc(m.discard, func(c Card) bool { return c.Name == card.Name }); i >= 0 {
			m.discard = slices.Delete(m.discard, i, i+1)
		}
		events = append(events, Event{Type: EventCardBuilt, Player: playerID, Data: map[string]interface{}{
			"card":         card.Name,
			"from_discard": true,
		}})
		events = append(events, m.applyCard(seat, card)...)
	}
	return m.settle(events)
}

// applyCard adds a built card to the city and pays its structured rewards.
// One-off effects are queued for settle.
func (m *Match) applyCard(seat int, card Card) []Event {
	me, opp := m.Players[seat], m.Players[1-seat]
	me.addCard(card)
	me.Points += card.Points

	var events []Event
	if card.Coins > 0 {
		events = append(events, m.gain(seat, card.Coins, card.Name))
	}
	if sr := card.Special; sr != nil {
		n := sr.count(me, opp)
		me.Points += n * sr.PointsPer
		if c := n * sr.CoinsPer; c > 0 {
			events = append(events, m.gain(seat, c, card.Name))
		}
	}
	if card.Shields > 0 {
		shields := card.Shields
		if card.Color == Red && me.HasToken(Strategy) {
			shields++
		}
		events = append(events, m.military(seat, shields)...)
	}
	if card.Science != ScienceNone {
		me.Science[card.Science]++
		events = append(events, Event{Type: EventScience, Player: me.ID, Data: map[string]interface{}{
			"symbol":   card.Science.String(),
			"distinct": me.DistinctScience(),
		}})
		if me.Science[card.Science] == 2 {
			m.enqueue(seat, []Effect{{Kind: EffectProgressToken}})
		}
	}
	m.enqueue(seat, card.Effects)
	return events
}

func (m *Match) gainToken(seat int, t ProgressToken) []Event {
	p := m.Players[seat]
	p.Tokens = append(p.Tokens, t)
	events := []Event{{Type: EventTokenGained, Player: p.ID, Data: map[string]interface{}{"token": t.String()}}}
	switch t {
	case Agriculture:
		p.Points += agriculturePoints
		events = append(events, m.gain(seat, agricultureCoins, t.String()))
	case Urbanism:
		events = append(events, m.gain(seat, urbanismCoins, t.String()))
	case Philosophy:
		p.Points += philosophyPoints
	case LawToken:
		p.Science[Law]++
		events = append(events, Event{Type: EventScience, Player: p.ID, Data: map[string]interface{}{
			"symbol":   Law.String(),
			"distinct": p.DistinctScience(),
		}})
	}
	return events
}

// gain changes a player's coins by n, clamped at zero.
func (m *Match) gain(seat, n int, source string) Event {
	p := m.Players[seat]
	applied := p.AddCoins(n)
	return Event{Type: EventCoins, Player: p.ID, Data: map[string]interface{}{
		"amount": applied,
		"source": source,
		"total":  p.Coins,
	}}
}

// payTrade hands trade coins to the seller when they hold Economy.
func (m *Match) payTrade(seat int, q Quote) []Event {
	if q.TradeCoins == 0 || !m.Players[1-seat].HasToken(Economy) {
		return nil
	}
	return []Event{m.gain(1-seat, q.TradeCoins, Economy.String())}
}

// military pushes the pawn toward the opponent's capital. Seat 0 pushes
// toward the last position.
func (m *Match) military(seat, shields int) []Event {
	delta := shields
	if seat == 1 {
		delta = -shields
	}
	_, fired := m.track.Apply(delta, m.Players[0], m.Players[1])
	events := []Event{{Type: EventMilitary, Player: m.Players[seat].ID, Data: map[string]interface{}{
		"shields":  shields,
		"position": m.track.Position(),
	}}}
	for _, pen := range fired {
		events = append(events, Event{Type: EventPenalty, Player: m.Players[int(pen.Side)].ID, Data: map[string]interface{}{
			"coins": pen.Coins,
			"total": m.Players[int(pen.Side)].Coins,
		}})
	}
	return events
}

func (m *Match) enqueue(seat int, effects []Effect) {
	for _, e := range effects {
		if e.Kind != EffectNone {
			m.queue = append(m.queue, queued{seat: seat, effect: e})
		}
	}
}

// settle checks for victory, drains queued effects, and ends the turn once
// nothing is left to decide.
func (m *Match) settle(events []Event) ([]Event, error) {
	if ev, over := m.checkVictory(); over {
		return append(events, ev...), nil
	}
	for len(m.queue) > 0 {
		q := m.queue[0]
		m.queue = m.queue[1:]
		ev, paused := m.resolveEffect(q)
		events = append(events, ev...)
		if paused {
			return events, nil
		}
	}
	ev, err := m.endTurn()
	return append(events, ev...), err
}

func (m *Match) resolveEffect(q queued) ([]Event, bool) {
	me, opp := m.Players[q.seat], m.Players[1-q.seat]
	switch q.effect.Kind {
	case EffectExtraTurn:
		m.extraTurn = true
	case EffectOpponentLosesCoins:
		return []Event{m.gain(1-q.seat, -q.effect.Amount, q.effect.Kind.String())}, false
	case EffectDestroyCard:
		return m.openChoice(me, q.effect, &Choice{Cards: opp.cardsOfColor(q.effect.Color)})
	case EffectBuildFromDiscard:
		return m.openChoice(me, q.effect, &Choice{Cards: slices.Clone(m.discard)})
	case EffectProgressToken:
		return m.openChoice(me, q.effect, &Choice{Tokens: m.board.list()})
	case EffectProgressFromBox:
		boxed := m.box.list()
		return m.openChoice(me, q.effect, &Choice{Tokens: boxed[:min(q.effect.Amount, len(boxed))]})
	}
	return nil, false
}

// openChoice pauses the turn for a decision. A choice with nothing to pick
// is skipped.
func (m *Match) openChoice(p *Player, e Effect, c *Choice) ([]Event, bool) {
	c.Kind = e.Kind
	c.Color = e.Color
	c.Player = p.ID
	if len(c.Cards) == 0 && len(c.Tokens) == 0 {
		return []Event{{Type: EventChoiceSkipped, Player: p.ID, Data: map[string]interface{}{
			"effect": e.String(),
		}}}, false
	}
	m.choice = c
	m.phase = choicePhase(e.Kind)
	return []Event{
		{Type: EventChoiceRequired, Player: p.ID, Data: c},
		{Type: EventPhaseChange, Data: map[string]interface{}{"phase": m.phase.String()}},
	}, true
}

// checkVictory ends the match on military or science supremacy. Military is
// checked first.
func (m *Match) checkVictory() ([]Event, bool) {
	if side, ok := m.track.Winner(); ok {
		return m.finish(int(side), VictoryMilitary), true
	}
	for _, seat := range []int{m.current, 1 - m.current} {
		if m.Players[seat].DistinctScience() >= m.Config.Rules.ScienceTarget {
			return m.finish(seat, VictoryScience), true
		}
	}
	return nil, false
}

func (m *Match) endTurn() ([]Event, error) {
	m.phase = PhaseAwaitingAction
	if m.layout.Exhausted() {
		m.extraTurn = false
		return m.advanceAge(1 - m.current)
	}
	if m.extraTurn {
		m.extraTurn = false
		return []Event{
			{Type: EventExtraTurn, Player: m.Players[m.current].ID},
			m.turnStart(),
		}, nil
	}
	m.current = 1 - m.current
	return []Event{m.turnStart()}, nil
}

// advanceAge deals the next layout, or scores the match after age III. The
// player the pawn is pushed toward starts the new age.
func (m *Match) advanceAge(next int) ([]Event, error) {
	events := []Event{{Type: EventAgeEnd, Data: map[string]interface{}{"age": m.age}}}
	if m.age == 3 {
		return append(events, m.finish(m.civilianWinner(), VictoryCivilian)...), nil
	}
	if side, ok := m.track.Leader(); ok {
		next = 1 - int(side)
	}
	if err := m.dealLayout(m.age + 1); err != nil {
		return events, err
	}
	m.current = next
	return append(events, m.ageStart()...), nil
}

func (m *Match) ageStart() []Event {
	return []Event{
		{Type: EventAgeStart, Player: m.Players[m.current].ID, Data: map[string]interface{}{
			"age":      m.age,
			"takeable": m.layout.Takeable(),
		}},
		m.turnStart(),
	}
}

func (m *Match) turnStart() Event {
	return Event{Type: EventTurnStart, Player: m.Players[m.current].ID, Data: map[string]interface{}{
		"age": m.age,
	}}
}

func (m *Match) finish(winner int, v Victory) []Event {
	r := &Result{Winner: winner, Victory: v, Scores: m.CalculateScores()}
	if winner >= 0 {
		r.WinnerID = m.Players[winner].ID
	}
	m.result = r
	m.phase = PhaseGameOver
	m.queue = nil
	m.choice = nil
	m.extraTurn = false
	return []Event{
		{Type: EventGameOver, Data: map[string]interface{}{"result": r}},
		{Type: EventPhaseChange, Data: map[string]interface{}{"phase": PhaseGameOver.String()}},
	}
}

func (m *Match) seat(playerID string) int {
	for i, p := range m.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// GetPlayer returns the seated player with id, or nil.
func (m *Match) GetPlayer(id string) *Player {
	if s := m.seat(id); s >= 0 {
		return m.Players[s]
	}
	return nil
}

// Opponent returns the other seated player.
func (m *Match) Opponent(id string) *Player {
	if s := m.seat(id); s >= 0 {
		return m.Players[1-s]
	}
	return nil
}

func (m *Match) Phase() MatchPhase { return m.phase }
func (m *Match) Age() int          { return m.age }
func (m *Match) Layout() *Layout   { return m.layout }
func (m *Match) Track() *Track     { return m.track }
func (m *Match) Result() *Result   { return m.result }
func (m *Match) Over() bool        { return m.phase == PhaseGameOver }
func (m *Match) WondersBuilt() int { return m.wonders }

// Current returns the player whose decision the match is waiting on.
func (m *Match) Current() *Player { return m.Players[m.current] }

// Discard returns a copy of the discard pile, oldest first.
func (m *Match) Discard() []Card { return slices.Clone(m.discard) }

// BoardTokens lists the progress tokens still on the board.
func (m *Match) BoardTokens() []ProgressToken { return m.board.list() }

// Choice returns the pending decision, or nil.
func (m *Match) Choice() *Choice {
	if m.choice == nil {
		return nil
	}
	c := *m.choice
	return &c
}

// Quote resolves what building the card in slot would cost playerID.
func (m *Match) Quote(playerID string, slot int) (Quote, error) {
	s := m.seat(playerID)
	if s < 0 {
		return Quote{}, ErrPlayerNotFound
	}
	if m.layout == nil {
		return Quote{}, ErrWrongPhase
	}
	card, err := m.layout.Peek(slot)
	if err != nil {
		return Quote{}, err
	}
	return Resolve(m.Players[s], m.Players[1-s], card), nil
}

// WonderQuote resolves what building the player's idx-th wonder would cost.
func (m *Match) WonderQuote(playerID string, idx int) (Quote, error) {
	s := m.seat(playerID)
	if s < 0 {
		return Quote{}, ErrPlayerNotFound
	}
	w, err := m.buildableWonder(m.Players[s], idx)
	if err != nil {
		return Quote{}, err
	}
	return ResolveWonder(m.Players[s], m.Players[1-s], w), nil
}
