package lobby

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Seats is the number of players in a match.
const Seats = 2

var (
	ErrStarted          = errors.New("match already started")
	ErrFull             = errors.New("lobby is full")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNotReady         = errors.New("not all players ready")
)

// PlayerInfo holds lobby-level player information.
type PlayerInfo struct {
	ID    string
	Name  string
	Ready bool
	Bot   bool
}

// Lobby is a match waiting for its two seats to fill.
type Lobby struct {
	mu      sync.Mutex
	ID      string
	Players []*PlayerInfo
	Started bool
}

func NewLobby(id string) *Lobby {
	return &Lobby{ID: id}
}

// Join seats a player. Joining again with a known id renames the player.
func (l *Lobby) Join(id, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.Players {
		if p.ID == id {
			p.Name = name
			return nil
		}
	}
	if l.Started {
		return ErrStarted
	}
	if len(l.Players) >= Seats {
		return ErrFull
	}
	l.Players = append(l.Players, &PlayerInfo{ID: id, Name: name})
	return nil
}

// AddBot fills a free seat with the random player. Bots are always ready.
func (l *Lobby) AddBot(name string) (PlayerInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return PlayerInfo{}, ErrStarted
	}
	if len(l.Players) >= Seats {
		return PlayerInfo{}, ErrFull
	}
	p := &PlayerInfo{ID: "bot-" + uuid.NewString(), Name: name, Ready: true, Bot: true}
	l.Players = append(l.Players, p)
	return *p, nil
}

// Leave frees a seat before the match starts.
func (l *Lobby) Leave(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return
	}
	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return
		}
	}
}

// SetReady toggles a player's ready state.
func (l *Lobby) SetReady(id string, ready bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.Players {
		if p.ID == id && !p.Bot {
			p.Ready = ready
			return
		}
	}
}

// CanStart reports whether both seats are filled and ready.
func (l *Lobby) CanStart() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.check() == nil
}

func (l *Lobby) check() error {
	if len(l.Players) < Seats {
		return ErrNotEnoughPlayers
	}
	for _, p := range l.Players {
		if !p.Ready {
			return ErrNotReady
		}
	}
	return nil
}

// Start marks the lobby as started.
func (l *Lobby) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return ErrStarted
	}
	if err := l.check(); err != nil {
		return err
	}
	l.Started = true
	return nil
}

// IsStarted reports whether the match has begun.
func (l *Lobby) IsStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Started
}

// GetPlayers returns a copy of the player list in seat order.
func (l *Lobby) GetPlayers() []PlayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		out[i] = *p
	}
	return out
}
