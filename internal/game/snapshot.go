package game

// CardView is a card as a front end is allowed to see it. A hidden card
// carries no rank or suit.
type CardView struct {
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// HandView is one participant's side of a snapshot.
type HandView struct {
	Cards []CardView `json:"cards"`
	Score int        `json:"score"`
	State string     `json:"state"`
}

// Snapshot is the renderable view of a round. While the player is still
// acting, the dealer's hole card is masked and the dealer score covers only
// the visible cards.
type Snapshot struct {
	Phase   string   `json:"phase"`
	Budget  int      `json:"budget"`
	Bet     int      `json:"bet"`
	Player  HandView `json:"player"`
	Dealer  HandView `json:"dealer"`
	Outcome Outcome  `json:"outcome,omitempty"`
	Net     int      `json:"net,omitempty"`
}

// Snapshot captures the current round state for renderers and the API.
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:   r.phase.String(),
		Budget:  r.player.budget,
		Bet:     r.player.bet,
		Outcome: r.outcome,
		Net:     r.net,
		Player: HandView{
			Cards: viewCards(r.player.hand.Cards(), -1),
			Score: r.player.hand.Score(),
			State: r.player.state.String(),
		},
	}

	holeHidden := r.phase == PlayerTurn
	if holeHidden {
		cards := r.dealer.hand.Cards()
		snap.Dealer = HandView{
			Cards: viewCards(cards, 1),
			State: r.dealer.state.String(),
		}
		var shown Hand
		if len(cards) > 0 {
			shown.Add(cards[0])
		}
		snap.Dealer.Score = shown.Score()
	} else {
		snap.Dealer = HandView{
			Cards: viewCards(r.dealer.hand.Cards(), -1),
			Score: r.dealer.hand.Score(),
			State: r.dealer.state.String(),
		}
	}

	return snap
}

// viewCards converts cards to views, hiding every card from index shown
// onward; shown < 0 reveals everything.
func viewCards(cards []Card, shown int) []CardView {
	views := make([]CardView, len(cards))
	for i, card := range cards {
		if shown >= 0 && i >= shown {
			views[i] = CardView{Hidden: true}
			continue
		}
		views[i] = CardView{Rank: string(card.Rank), Suit: string(card.Suit)}
	}
	return views
}
