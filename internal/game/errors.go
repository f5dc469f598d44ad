package game

import "errors"

var (
	// ErrEmptyShoe indicates a draw from a depleted shoe. A legal round can
	// never exhaust the 52-card budget, so this is surfaced, not recovered.
	ErrEmptyShoe = errors.New("game: shoe is empty")

	// ErrInsufficientFunds indicates a round was opened for a broke player.
	ErrInsufficientFunds = errors.New("game: player has no money left")

	// ErrInvalidBet indicates a bet outside (0, budget]. The round state is
	// unchanged and the caller may retry with a new amount.
	ErrInvalidBet = errors.New("game: bet must be positive and within the budget")

	// ErrBadPhase indicates an operation invoked outside its round phase.
	ErrBadPhase = errors.New("game: operation not allowed in current phase")
)
