package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"duel/internal/engine"
	"duel/internal/history"
	"duel/internal/protocol"
)

const shutdownTimeout = 5 * time.Second

// Archive stores finished matches. *history.Store satisfies it.
type Archive interface {
	Record(ctx context.Context, matchID string, r *engine.Result) error
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	TallyFor(ctx context.Context, playerID string) (history.Tally, error)
}

// Options configure every match the server hosts.
type Options struct {
	Deck  engine.DeckFactory
	Rules engine.Rules
	// Seed fixes shuffles and bot choices; zero draws fresh randomness.
	Seed    uint64
	Archive Archive
	Log     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Rules.TrackLength == 0 {
		o.Rules = engine.DefaultRules()
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return o
}

func protocolHistory(entries []history.Entry) protocol.HistoryMsg {
	if entries == nil {
		entries = []history.Entry{}
	}
	return protocol.HistoryMsg{Matches: entries}
}

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	handlers *Handlers
	port     int
	static   fs.FS
	log      *slog.Logger
}

// New serves static from the root of the given file system.
func New(port int, static fs.FS, opts Options) *Server {
	h := NewHandlers(opts)
	return &Server{
		handlers: h,
		port:     port,
		static:   static,
		log:      h.opts.Log,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(s.static)))

	mux.HandleFunc("/api/create", s.handlers.HandleCreateGame)
	mux.HandleFunc("/api/qr", s.handlers.HandleQR)
	mux.HandleFunc("/api/player-id", s.handlers.HandlePlayerID)
	mux.HandleFunc("/api/history", s.handlers.HandleHistory)
	mux.HandleFunc("/ws", s.handlers.HandleWS)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server starting", "url", "http://localhost"+addr)
	s.log.Info("create a game", "url", "http://localhost"+addr+"/api/create")

	select {
	case err := <-errc:
		s.handlers.Close()
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.handlers.Close()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops every room without touching the listener.
func (s *Server) Close() {
	s.handlers.Close()
}
