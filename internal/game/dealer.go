package game

// DefaultDealerThreshold is the classic house rule: the dealer draws until
// reaching 17.
const DefaultDealerThreshold = 17

// Dealer owns the shoe for the round and plays a fixed strategy: draw while
// below the stopping threshold.
type Dealer struct {
	shoe      *Shoe
	hand      Hand
	state     State
	threshold int
}

// NewDealer creates a dealer around a shoe. A threshold of 0 or less selects
// DefaultDealerThreshold.
func NewDealer(shoe *Shoe, threshold int) *Dealer {
	if threshold <= 0 {
		threshold = DefaultDealerThreshold
	}
	return &Dealer{shoe: shoe, state: Idle, threshold: threshold}
}

// Draw takes the top card from the dealer's shoe.
func (d *Dealer) Draw() (Card, error) {
	return d.shoe.Draw()
}

// Hand returns the dealer's hand.
func (d *Dealer) Hand() *Hand {
	return &d.hand
}

// State returns the dealer's turn state.
func (d *Dealer) State() State {
	return d.state
}

// Threshold returns the dealer's stopping threshold.
func (d *Dealer) Threshold() int {
	return d.threshold
}

// update recomputes the state; the dealer auto-stands at the threshold.
func (d *Dealer) update() {
	d.state = stateFor(d.hand.Score(), d.threshold)
}

// Play takes one deterministic dealer turn: draw a card if the hand is below
// the threshold, otherwise do nothing.
func (d *Dealer) Play() error {
	if d.hand.Score() >= d.threshold {
		return nil
	}

	card, err := d.Draw()
	if err != nil {
		return err
	}
	d.hand.Add(card)
	d.update()
	return nil
}

// done reports whether the dealer's turn loop should stop.
func (d *Dealer) done() bool {
	return d.state == Bust || d.state == Stand
}

// reset clears the hand and state and installs a fresh unshuffled shoe.
func (d *Dealer) reset(shoe *Shoe) {
	d.hand.Clear()
	d.state = Idle
	d.shoe = shoe
}
