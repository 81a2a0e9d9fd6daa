package engine

import "fmt"

// Victory names how a match was decided.
type Victory int

const (
	VictoryNone Victory = iota
	VictoryMilitary
	VictoryScience
	VictoryCivilian
)

var victoryNames = map[Victory]string{
	VictoryNone:     "none",
	VictoryMilitary: "military",
	VictoryScience:  "science",
	VictoryCivilian: "civilian",
}

func (v Victory) String() string {
	if s, ok := victoryNames[v]; ok {
		return s
	}
	return "unknown"
}

func (v Victory) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Victory) UnmarshalText(b []byte) error {
	for k, name := range victoryNames {
		if name == string(b) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown victory %q", b)
}

// ScoreEntry holds scoring breakdown for one player.
type ScoreEntry struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Points      int    `json:"points"`   // cards, wonders, tokens
	Military    int    `json:"military"` // conflict track tier
	Treasury    int    `json:"treasury"` // one per three coins
	Mathematics int    `json:"mathematics"`
	Civilian    int    `json:"civilian"` // blue card points, first tie-break
	Total       int    `json:"total"`
}

// Result is the outcome of a finished match. Winner is the winning seat, or
// -1 for a draw.
type Result struct {
	Winner   int           `json:"winner"`
	WinnerID string        `json:"winner_id,omitempty"`
	Victory  Victory       `json:"victory"`
	Scores   [2]ScoreEntry `json:"scores"`
}

// Draw reports whether neither player won.
func (r *Result) Draw() bool { return r.Winner < 0 }

// CalculateScores computes final scores for both players.
func (m *Match) CalculateScores() [2]ScoreEntry {
	var entries [2]ScoreEntry
	for i, p := range m.Players {
		e := ScoreEntry{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Points:     p.Points,
			Treasury:   p.Coins / 3,
		}
		if m.track != nil {
			e.Military = m.track.MilitaryScore(Side(i))
		}
		if p.HasToken(Mathematics) {
			e.Mathematics = mathematicsPer * len(p.Tokens)
		}
		for _, c := range p.Built {
			if c.Color == Blue {
				e.Civilian += c.Points
			}
		}
		e.Total = e.Points + e.Military + e.Treasury + e.Mathematics
		entries[i] = e
	}
	return entries
}

// civilianWinner picks the seat with the higher total, then the higher
// civilian score. It returns -1 on a full tie.
func (m *Match) civilianWinner() int {
	s := m.CalculateScores()
	switch {
	case s[0].Total != s[1].Total:
		if s[0].Total > s[1].Total {
			return 0
		}
		return 1
	case s[0].Civilian != s[1].Civilian:
		if s[0].Civilian > s[1].Civilian {
			return 0
		}
		return 1
	}
	return -1
}
