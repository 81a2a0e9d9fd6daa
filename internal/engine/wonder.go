package engine

// Wonder is a wonder assigned to a player at setup.
type Wonder struct {
	Name           string     `json:"name"`
	Cost           Cost       `json:"cost,omitempty"`
	Points         int        `json:"points,omitempty"`
	Shields        int        `json:"shields,omitempty"`
	Coins          int        `json:"coins,omitempty"`
	ProducesChoice []Resource `json:"produces_choice,omitempty"`
	Effects        []Effect   `json:"effects,omitempty"`
	Built          bool       `json:"built"`
}

// GrantsExtraTurn reports whether building the wonder replays the turn.
func (w *Wonder) GrantsExtraTurn() bool {
	return hasEffect(w.Effects, EffectExtraTurn)
}
