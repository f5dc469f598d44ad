package game

// Player holds the bettor's budget, current bet, hand and turn state.
type Player struct {
	budget int
	bet    int
	hand   Hand
	state  State
}

// NewPlayer creates a player with the given starting budget.
func NewPlayer(budget int) *Player {
	return &Player{budget: budget, state: Idle}
}

// PlaceBet sets the bet for the current round. The amount must be positive
// and no more than the budget; anything else is rejected with ErrInvalidBet
// and no state changes. Re-prompting on rejection is the caller's job.
func (p *Player) PlaceBet(amount int) error {
	if amount <= 0 || amount > p.budget {
		return ErrInvalidBet
	}
	p.bet = amount
	return nil
}

// IsBroke returns true when the budget is exhausted. A round must not be
// opened for a broke player.
func (p *Player) IsBroke() bool {
	return p.budget == 0
}

// Budget returns the player's current budget.
func (p *Player) Budget() int {
	return p.budget
}

// Bet returns the bet placed for the current round.
func (p *Player) Bet() int {
	return p.bet
}

// Hand returns the player's hand.
func (p *Player) Hand() *Hand {
	return &p.hand
}

// State returns the player's turn state.
func (p *Player) State() State {
	return p.state
}

// update recomputes the state from the hand score. Players auto-stand on
// exactly 21.
func (p *Player) update() {
	p.state = stateFor(p.hand.Score(), bustBound)
}

// Play takes one player turn with an externally supplied decision: on hit,
// draw a card from the dealer's shoe and recompute the state; otherwise
// stand directly.
func (p *Player) Play(dealer *Dealer, hit bool) error {
	if !hit {
		p.state = Stand
		return nil
	}

	card, err := dealer.Draw()
	if err != nil {
		return err
	}
	p.hand.Add(card)
	p.update()
	return nil
}

// done reports whether the player's turn loop should stop.
func (p *Player) done() bool {
	return p.state == Bust || p.state == Stand
}

// win credits the bet times the payout multiplier.
func (p *Player) win(payout int) {
	p.budget += p.bet * payout
}

// lose charges the full bet.
func (p *Player) lose() {
	p.budget -= p.bet
}

// reset clears the hand and state for a new round. Budget and bet are left
// untouched.
func (p *Player) reset() {
	p.hand.Clear()
	p.state = Idle
}
