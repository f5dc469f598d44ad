package game

import (
	"fmt"
	"strings"
)

// Hand is the ordered collection of cards held by one participant. Order
// matters only for display; the score is recomputed on demand.
type Hand struct {
	cards []Card
}

// Add appends a card to the hand. Uniqueness is the shoe's invariant, so no
// duplicate check is done here.
func (h *Hand) Add(card Card) {
	h.cards = append(h.cards, card)
}

// Score returns the hand total with the soft-ace rule: the raw sum of card
// values, plus 10 once if the hand holds at least one Ace and the raw total
// is 11 or less. At most one Ace is ever promoted to 11.
func (h *Hand) Score() int {
	total := 0
	hasAce := false
	for _, card := range h.cards {
		total += card.Score()
		if card.IsAce() {
			hasAce = true
		}
	}

	if hasAce && total <= 11 {
		total += 10
	}

	return total
}

// Cards returns the cards in deal order.
func (h *Hand) Cards() []Card {
	return h.cards
}

// Size returns the number of cards in the hand.
func (h *Hand) Size() int {
	return len(h.cards)
}

// Clear empties the hand for a new round.
func (h *Hand) Clear() {
	h.cards = nil
}

// String renders the hand like "[A][9] (20)".
func (h *Hand) String() string {
	var b strings.Builder
	for _, card := range h.cards {
		fmt.Fprintf(&b, "[%s]", card.Rank)
	}
	fmt.Fprintf(&b, " (%d)", h.Score())
	return b.String()
}
