package game

import (
	"math/rand"
	"time"
)

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}
var ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Shoe is the drawable stack of cards for a round. It is owned by the dealer
// and replaced wholesale when the round is reset.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe builds a full 52-card shoe in deterministic (suit, rank) order.
// The rand source is used for shuffling; pass nil for a time-seeded one.
func NewShoe(rng *rand.Rand) *Shoe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shoe := &Shoe{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for _, suit := range suits {
		for _, rank := range ranks {
			shoe.cards = append(shoe.cards, Card{Suit: suit, Rank: rank})
		}
	}

	return shoe
}

// Shuffle randomizes the order of the remaining cards in place.
func (s *Shoe) Shuffle() {
	// Fisher-Yates shuffle algorithm
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card. Drawing from an empty shoe returns
// ErrEmptyShoe; correct round sequencing never exhausts the 52-card budget,
// so callers treat it as a fatal invariant violation.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}

	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, nil
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}
