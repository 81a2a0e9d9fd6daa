package engine

// MatchPhase represents the current phase of the match state machine.
type MatchPhase int

const (
	PhaseSetup          MatchPhase = iota // created, not started
	PhaseAwaitingAction                   // current player picks a slot and an action
	PhaseChooseToken                      // picking a progress token
	PhaseChooseDestroy                    // picking an opponent card to destroy
	PhaseChooseDiscard                    // picking a discarded card to build
	PhaseGameOver                         // match finished
)

var phaseNames = map[MatchPhase]string{
	PhaseSetup:          "Setup",
	PhaseAwaitingAction: "AwaitingAction",
	PhaseChooseToken:    "ChooseToken",
	PhaseChooseDestroy:  "ChooseDestroy",
	PhaseChooseDiscard:  "ChooseDiscard",
	PhaseGameOver:       "GameOver",
}

func (p MatchPhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}

// choicePhase maps a choice-opening effect to the phase that resolves it.
func choicePhase(k EffectKind) MatchPhase {
	switch k {
	case EffectProgressToken, EffectProgressFromBox:
		return PhaseChooseToken
	case EffectDestroyCard:
		return PhaseChooseDestroy
	case EffectBuildFromDiscard:
		return PhaseChooseDiscard
	}
	return PhaseAwaitingAction
}
