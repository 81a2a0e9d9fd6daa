package engine

// ActionType identifies player actions sent to Match.Apply.
type ActionType string

const (
	ActionBuild       ActionType = "build"
	ActionDiscard     ActionType = "discard"
	ActionWonder      ActionType = "wonder"
	ActionChooseToken ActionType = "choose_token"
	ActionChooseCard  ActionType = "choose_card"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// build, discard: Slot
	// wonder: Slot (foundation card), Wonder (index into the player's wonders)
	// choose_token: Token
	// choose_card: Index into the pending candidates
	Slot   int           `json:"slot"`
	Wonder int           `json:"wonder,omitempty"`
	Token  ProgressToken `json:"token,omitempty"`
	Index  int           `json:"index,omitempty"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventMatchStart     EventType = "match_start"
	EventAgeStart       EventType = "age_start"
	EventTurnStart      EventType = "turn_start"
	EventCardBuilt      EventType = "card_built"
	EventCardDiscarded  EventType = "card_discarded"
	EventWonderBuilt    EventType = "wonder_built"
	EventWondersClosed  EventType = "wonders_closed"
	EventCoins          EventType = "coins"
	EventMilitary       EventType = "military"
	EventPenalty        EventType = "penalty"
	EventScience        EventType = "science"
	EventTokenGained    EventType = "token_gained"
	EventCardDestroyed  EventType = "card_destroyed"
	EventChoiceRequired EventType = "choice_required"
	EventChoiceSkipped  EventType = "choice_skipped"
	EventExtraTurn      EventType = "extra_turn"
	EventAgeEnd         EventType = "age_end"
	EventGameOver       EventType = "game_over"
	EventPhaseChange    EventType = "phase_change"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type   EventType   `json:"type"`
	Player string      `json:"player,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}
