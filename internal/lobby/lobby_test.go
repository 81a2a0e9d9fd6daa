package lobby_test

import (
	"errors"
	"strings"
	"testing"

	"duel/internal/lobby"
)

func TestSeating(t *testing.T) {
	l := lobby.NewLobby("g")
	if err := l.Join("a", "Ada"); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("a", "Ada L"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if err := l.Join("b", "Bo"); err != nil {
		t.Fatal(err)
	}
	if err := l.Join("c", "Cy"); !errors.Is(err, lobby.ErrFull) {
		t.Fatalf("third join: err = %v, want ErrFull", err)
	}
	if _, err := l.AddBot("Bot"); !errors.Is(err, lobby.ErrFull) {
		t.Fatalf("bot in full lobby: err = %v, want ErrFull", err)
	}

	players := l.GetPlayers()
	if len(players) != 2 || players[0].Name != "Ada L" || players[1].ID != "b" {
		t.Fatalf("players = %+v", players)
	}
}

func TestStart(t *testing.T) {
	l := lobby.NewLobby("g")
	l.Join("a", "Ada")
	if err := l.Start(); !errors.Is(err, lobby.ErrNotEnoughPlayers) {
		t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
	}

	bot, err := l.AddBot("Bot")
	if err != nil {
		t.Fatal(err)
	}
	if !bot.Bot || !bot.Ready || !strings.HasPrefix(bot.ID, "bot-") {
		t.Errorf("bot = %+v", bot)
	}
	if l.CanStart() {
		t.Fatal("human not ready yet")
	}
	if err := l.Start(); !errors.Is(err, lobby.ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}

	l.SetReady("a", true)
	l.SetReady(bot.ID, false)
	if !l.CanStart() {
		t.Fatal("lobby should be startable; bots stay ready")
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); !errors.Is(err, lobby.ErrStarted) {
		t.Fatalf("second start: err = %v, want ErrStarted", err)
	}

	l.Leave("a")
	if len(l.GetPlayers()) != 2 {
		t.Error("players must not leave a started match")
	}
	if err := l.Join("a", "Ada"); err != nil {
		t.Errorf("reconnect after start: %v", err)
	}
	if err := l.Join("z", "Zed"); !errors.Is(err, lobby.ErrStarted) {
		t.Errorf("new player after start: err = %v, want ErrStarted", err)
	}
}

func TestManager(t *testing.T) {
	m := lobby.NewManager()
	a, b := m.Create(), m.Create()
	if a == b {
		t.Fatal("ids collide")
	}
	if m.Get(a) == nil || m.Get(a).ID != a {
		t.Fatal("lobby not found")
	}
	m.Remove(a)
	if m.Get(a) != nil || m.Get(b) == nil {
		t.Fatal("lobby not removed")
	}
}
