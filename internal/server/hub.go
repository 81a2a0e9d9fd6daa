package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"duel/internal/bot"
	"duel/internal/engine"
	"duel/internal/lobby"
	"duel/internal/play"
	"duel/internal/protocol"
)

const (
	defaultBotName = "Automaton"
	recordTimeout  = 5 * time.Second
)

// Hub manages WebSocket connections and match state for one room. Only the
// Run goroutine touches the match.
type Hub struct {
	mu         sync.Mutex
	gameID     string
	lobby      *lobby.Lobby
	match      *engine.Match
	opts       Options
	log        *slog.Logger
	bots       map[string]*bot.Bot
	recorded   bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewHub(gameID string, lob *lobby.Lobby, opts Options) *Hub {
	opts = opts.withDefaults()
	return &Hub{
		gameID:     gameID,
		lobby:      lob,
		opts:       opts,
		log:        opts.Log.With("match", gameID),
		bots:       make(map[string]*bot.Bot),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendLobbyUpdate()
			if h.match != nil {
				h.sendStateToClient(client)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case <-h.quit:
			return
		}
	}
}

// Stop ends the Run loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	switch msg.Envelope.Type {
	case protocol.MsgJoin:
		h.handleJoin(msg)
	case protocol.MsgReady:
		h.handleReady(msg)
	case protocol.MsgAddBot:
		h.handleAddBot(msg)
	case protocol.MsgStartGame:
		h.handleStartGame(msg)
	default:
		h.handleGameAction(msg)
	}
}

func (h *Hub) handleJoin(msg IncomingMessage) {
	var join protocol.JoinMsg
	if err := msg.Envelope.Decode(&join); err != nil || join.PlayerID == "" {
		h.sendError(msg.Client, "invalid join message")
		return
	}
	msg.Client.PlayerID = join.PlayerID
	if err := h.lobby.Join(join.PlayerID, join.Name); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.log.Info("player joined", "player", join.PlayerID, "name", join.Name)
	h.sendLobbyUpdate()
	if h.match != nil {
		h.sendStateToClient(msg.Client)
	}
}

func (h *Hub) handleReady(msg IncomingMessage) {
	var ready protocol.ReadyMsg
	if err := msg.Envelope.Decode(&ready); err != nil {
		h.sendError(msg.Client, "invalid ready message")
		return
	}
	h.lobby.SetReady(msg.Client.PlayerID, ready.Ready)
	h.sendLobbyUpdate()
}

func (h *Hub) handleAddBot(msg IncomingMessage) {
	var req protocol.AddBotMsg
	if err := msg.Envelope.Decode(&req); err != nil {
		h.sendError(msg.Client, "invalid add_bot message")
		return
	}
	if req.Name == "" {
		req.Name = defaultBotName
	}
	p, err := h.lobby.AddBot(req.Name)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.bots[p.ID] = bot.New(h.seed())
	h.log.Info("bot seated", "player", p.ID)
	h.sendLobbyUpdate()
}

func (h *Hub) handleStartGame(msg IncomingMessage) {
	if err := h.lobby.Start(); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	lobbyPlayers := h.lobby.GetPlayers()
	var players [2]*engine.Player
	for i, lp := range lobbyPlayers {
		players[i] = engine.NewPlayer(lp.ID, lp.Name)
	}

	cfg := engine.DefaultConfig(h.opts.Deck)
	cfg.Rules = h.opts.Rules
	cfg.Seed = h.seed()
	m, err := engine.NewMatch(players, cfg)
	if err != nil {
		h.log.Error("create match", "err", err)
		h.sendError(msg.Client, err.Error())
		return
	}
	m.ID = h.gameID
	events, err := m.Start()
	if err != nil {
		h.log.Error("start match", "err", err)
		h.sendError(msg.Client, err.Error())
		return
	}
	h.match = m
	h.log.Info("match started", "seed", cfg.Seed)
	h.sendLobbyUpdate()
	h.broadcastEvents(events)
	h.advance()
}

func (h *Hub) handleGameAction(msg IncomingMessage) {
	if h.match == nil {
		h.sendError(msg.Client, "game not started")
		return
	}

	action, err := parseAction(msg.Envelope)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	events, err := h.match.Apply(msg.Client.PlayerID, action)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	h.broadcastEvents(events)
	h.advance()
}

// advance lets bot seats move until a human is to act, then publishes the
// new state and archives a finished match.
func (h *Hub) advance() {
	for !h.match.Over() {
		b, ok := h.bots[h.match.Current().ID]
		if !ok {
			break
		}
		events, err := play.Step(h.match, b)
		if err != nil {
			h.log.Error("bot move failed", "player", h.match.Current().ID, "err", err)
			break
		}
		h.broadcastEvents(events)
	}
	h.broadcastState()
	if h.match.Over() {
		h.record()
	}
}

func (h *Hub) record() {
	if h.recorded || h.opts.Archive == nil {
		return
	}
	h.recorded = true
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := h.opts.Archive.Record(ctx, h.gameID, h.match.Result()); err != nil {
		h.log.Error("archive match", "err", err)
	}
}

func (h *Hub) seed() uint64 {
	if h.opts.Seed != 0 {
		return h.opts.Seed + uint64(len(h.bots))
	}
	return rand.Uint64()
}

func parseAction(env protocol.Envelope) (engine.Action, error) {
	var msg protocol.ActionMsg
	if err := env.Decode(&msg); err != nil {
		return engine.Action{}, err
	}

	action := engine.Action{
		Type:   engine.ActionType(env.Type),
		Slot:   msg.Slot,
		Wonder: msg.Wonder,
		Index:  msg.Index,
	}
	switch action.Type {
	case engine.ActionBuild, engine.ActionDiscard, engine.ActionWonder, engine.ActionChooseCard:
	case engine.ActionChooseToken:
		t, err := engine.ParseProgressToken(msg.Token)
		if err != nil {
			return engine.Action{}, err
		}
		action.Token = t
	default:
		return engine.Action{}, fmt.Errorf("unknown message type %q", env.Type)
	}
	return action, nil
}

func (h *Hub) broadcastEvents(events []engine.Event) {
	for _, ev := range events {
		env := protocol.MustEnvelope(protocol.MsgEvent, ev)
		h.broadcastAll(env)
	}
}

func (h *Hub) broadcastState() {
	if h.match == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.sendStateToClient(client)
	}
}

func (h *Hub) sendStateToClient(client *Client) {
	if h.match == nil {
		return
	}
	if client.Type == ClientTV {
		pv := h.match.PublicView()
		env := protocol.MustEnvelope(protocol.MsgGameState, pv)
		client.SendEnvelope(env)
	} else {
		view := h.match.ViewFor(client.PlayerID)
		env := protocol.MustEnvelope(protocol.MsgPlayerState, view)
		client.SendEnvelope(env)
	}
}

func (h *Hub) sendLobbyUpdate() {
	players := h.lobby.GetPlayers()
	lps := make([]protocol.LobbyPlayer, len(players))
	for i, p := range players {
		lps[i] = protocol.LobbyPlayer{ID: p.ID, Name: p.Name, Ready: p.Ready, Bot: p.Bot}
	}
	env := protocol.MustEnvelope(protocol.MsgLobbyUpdate, protocol.LobbyUpdate{
		GameID:  h.gameID,
		Players: lps,
		Started: h.lobby.IsStarted(),
	})
	h.broadcastAll(env)
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		h.log.Error("broadcast marshal", "type", env.Type, "err", err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.Warn("client buffer full", "player", client.PlayerID)
		}
	}
}

func (h *Hub) sendError(client *Client, message string) {
	env := protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{Message: message})
	client.SendEnvelope(env)
}
