package protocol

import "duel/internal/history"

// Message types: Server → Client
const (
	MsgLobbyUpdate = "lobby_update"
	MsgGameState   = "game_state"
	MsgPlayerState = "player_state"
	MsgEvent       = "event"
	MsgError       = "error"
	MsgHistory     = "history"
)

// Message types: Client → Server
const (
	MsgJoin      = "join"
	MsgReady     = "ready"
	MsgAddBot    = "add_bot"
	MsgStartGame = "start_game"
	// In-game actions use the same names as engine ActionType
	MsgBuild       = "build"
	MsgDiscard     = "discard"
	MsgWonder      = "wonder"
	MsgChooseToken = "choose_token"
	MsgChooseCard  = "choose_card"
)

// LobbyUpdate is sent to all clients when lobby state changes.
type LobbyUpdate struct {
	GameID  string        `json:"game_id"`
	Players []LobbyPlayer `json:"players"`
	Started bool          `json:"started"`
}

type LobbyPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Bot   bool   `json:"bot,omitempty"`
}

// JoinMsg is sent by a player to join the game.
type JoinMsg struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// ReadyMsg is sent by a player to toggle ready state.
type ReadyMsg struct {
	Ready bool `json:"ready"`
}

// AddBotMsg fills the free seat with the random player.
type AddBotMsg struct {
	Name string `json:"name,omitempty"`
}

// ActionMsg carries the parameters of an in-game action; which fields are
// read depends on the envelope type.
type ActionMsg struct {
	Slot   int    `json:"slot"`
	Wonder int    `json:"wonder"`
	Token  string `json:"token"`
	Index  int    `json:"index"`
}

// HistoryMsg lists recently finished matches.
type HistoryMsg struct {
	Matches []history.Entry `json:"matches"`
	Tally   *history.Tally  `json:"tally,omitempty"`
}

// ErrorMsg is sent to a client on error.
type ErrorMsg struct {
	Message string `json:"message"`
}
