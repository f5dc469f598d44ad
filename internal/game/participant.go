package game

// State is the turn state of a participant. Exactly one state holds at any
// time; it is recomputed from the hand score after every hit.
type State int

const (
	Idle   State = iota // no hand dealt yet, or freshly reset
	Active              // still eligible to act
	Stand               // stopped, voluntarily or by auto-stand
	Bust                // score above 21
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Stand:
		return "stand"
	case Bust:
		return "bust"
	default:
		return "unknown"
	}
}

const bustBound = 21

// stateFor derives the participant state from a hand score. standAt is the
// auto-stand threshold: 21 exactly for players, the dealer's configured
// minimum for dealers.
func stateFor(score, standAt int) State {
	switch {
	case score > bustBound:
		return Bust
	case score >= standAt:
		return Stand
	default:
		return Active
	}
}
