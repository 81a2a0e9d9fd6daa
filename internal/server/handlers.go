package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"duel/internal/lobby"
	qr "duel/internal/qrcode"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	LobbyMgr *lobby.Manager
	opts     Options

	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewHandlers(opts Options) *Handlers {
	return &Handlers{
		LobbyMgr: lobby.NewManager(),
		opts:     opts.withDefaults(),
		hubs:     make(map[string]*Hub),
	}
}

// Hub returns the room for gameID.
func (h *Handlers) Hub(gameID string) (*Hub, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hub, ok := h.hubs[gameID]
	return hub, ok
}

// CreateGame opens a lobby and starts its hub.
func (h *Handlers) CreateGame() string {
	gameID := h.LobbyMgr.Create()
	hub := NewHub(gameID, h.LobbyMgr.Get(gameID), h.opts)
	h.mu.Lock()
	h.hubs[gameID] = hub
	h.mu.Unlock()
	go hub.Run()
	h.opts.Log.Info("game created", "match", gameID)
	return gameID
}

// Close stops every hub.
func (h *Handlers) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, hub := range h.hubs {
		hub.Stop()
		delete(h.hubs, id)
		h.LobbyMgr.Remove(id)
	}
}

// HandleCreateGame creates a new game lobby and sends the table screen to it.
func (h *Handlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	gameID := h.CreateGame()
	http.Redirect(w, r, fmt.Sprintf("/?game=%s&type=tv", gameID), http.StatusSeeOther)
}

// HandleQR generates a QR code PNG for joining the game.
func (h *Handlers) HandleQR(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	png, err := qr.JoinPNG(r.Host, gameID)
	if err != nil {
		h.opts.Log.Error("qr generation", "match", gameID, "err", err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleWS handles WebSocket connections.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	playerID := r.URL.Query().Get("player")
	clientType := r.URL.Query().Get("type") // "tv" or "player"

	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	hub, ok := h.Hub(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.opts.Log.Warn("ws upgrade", "match", gameID, "err", err)
		return
	}

	ct := ClientPlayer
	if clientType == "tv" {
		ct = ClientTV
	}

	client := NewClient(hub, conn, playerID, ct)
	select {
	case hub.register <- client:
	case <-hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// HandlePlayerID returns a new player ID.
func (h *Handlers) HandlePlayerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(uuid.NewString()))
}

// HandleHistory lists recently finished matches as JSON; ?player= adds that
// player's tally.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.opts.Archive == nil {
		http.Error(w, "match history disabled", http.StatusNotFound)
		return
	}
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	entries, err := h.opts.Archive.Recent(r.Context(), limit)
	if err != nil {
		h.opts.Log.Error("list history", "err", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	msg := protocolHistory(entries)
	if player := r.URL.Query().Get("player"); player != "" {
		tally, err := h.opts.Archive.TallyFor(r.Context(), player)
		if err != nil {
			h.opts.Log.Error("tally history", "player", player, "err", err)
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		msg.Tally = &tally
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msg)
}
