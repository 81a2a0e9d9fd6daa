// Package history archives finished match results in SQLite.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"duel/internal/engine"
)

// ErrUnfinished is returned when recording a match that has no result.
var ErrUnfinished = errors.New("match has no result")

// Entry is one archived match.
type Entry struct {
	MatchID    string `db:"match_id" json:"match_id"`
	FinishedAt int64  `db:"finished_at" json:"finished_at"`
	Winner     int    `db:"winner" json:"winner"`
	WinnerID   string `db:"winner_id" json:"winner_id,omitempty"`
	Victory    string `db:"victory" json:"victory"`
	ScoresJSON string `db:"scores_json" json:"-"`

	Scores [2]engine.ScoreEntry `db:"-" json:"scores"`
}

// Draw reports whether the archived match ended without a winner.
func (e Entry) Draw() bool { return e.Winner < 0 }

// Store wraps the archive database.
type Store struct {
	conn *sqlx.DB
	log  *slog.Logger
	now  func() time.Time
}

// Open opens or creates the archive at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{conn: conn, log: log, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL UNIQUE,
		finished_at INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		winner_id TEXT NOT NULL,
		victory TEXT NOT NULL,
		scores_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS participants (
		match_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		total INTEGER NOT NULL,
		won INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_participants_player ON participants(player_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Record archives the result of a finished match. Recording the same match
// twice keeps the first row.
func (s *Store) Record(ctx context.Context, matchID string, r *engine.Result) error {
	if r == nil {
		return fmt.Errorf("%w: %s", ErrUnfinished, matchID)
	}
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO matches (match_id, finished_at, winner, winner_id, victory, scores_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		matchID, s.now().Unix(), r.Winner, r.WinnerID, r.Victory.String(), string(scores),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Debug("match already archived", "match", matchID)
		return nil
	}
	for i, sc := range r.Scores {
		won := 0
		if r.Winner == i {
			won = 1
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO participants (match_id, player_id, name, total, won) VALUES (?, ?, ?, ?, ?)",
			matchID, sc.PlayerID, sc.PlayerName, sc.Total, won,
		); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("match archived", "match", matchID, "winner", r.WinnerID, "victory", r.Victory.String())
	return nil
}

// Recent returns up to limit archived matches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.conn.SelectContext(ctx, &entries,
		`SELECT match_id, finished_at, winner, winner_id, victory, scores_json
		FROM matches ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if err := json.Unmarshal([]byte(entries[i].ScoresJSON), &entries[i].Scores); err != nil {
			return nil, fmt.Errorf("decode scores for %s: %w", entries[i].MatchID, err)
		}
	}
	return entries, nil
}

// Tally is a player's record across archived matches.
type Tally struct {
	PlayerID string `db:"player_id" json:"player_id"`
	Played   int    `db:"played" json:"played"`
	Won      int    `db:"won" json:"won"`
}

// TallyFor counts the archived matches a player took part in and won.
func (s *Store) TallyFor(ctx context.Context, playerID string) (Tally, error) {
	t := Tally{PlayerID: playerID}
	err := s.conn.GetContext(ctx, &t,
		`SELECT ? AS player_id, COUNT(*) AS played, COALESCE(SUM(won), 0) AS won
		FROM participants WHERE player_id = ?`,
		playerID, playerID,
	)
	return t, err
}
