package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewShoeHas52UniqueCards(t *testing.T) {
	shoe := NewShoe(nil)
	if shoe.Remaining() != 52 {
		t.Fatalf("Remaining() = %d, want 52", shoe.Remaining())
	}

	seen := make(map[Card]bool)
	for shoe.Remaining() > 0 {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatalf("Draw() error = %v", err)
		}
		if seen[card] {
			t.Fatalf("card drawn twice: %v", card)
		}
		seen[card] = true
	}
	if len(seen) != 52 {
		t.Errorf("unique cards = %d, want 52", len(seen))
	}
}

func TestShuffleKeepsMultiset(t *testing.T) {
	shoe := NewShoe(rand.New(rand.NewSource(7)))
	shoe.Shuffle()

	if shoe.Remaining() != 52 {
		t.Fatalf("Remaining() after shuffle = %d, want 52", shoe.Remaining())
	}

	seen := make(map[Card]bool)
	for shoe.Remaining() > 0 {
		card, _ := shoe.Draw()
		seen[card] = true
	}
	if len(seen) != 52 {
		t.Errorf("shuffle changed the card multiset: %d unique cards", len(seen))
	}
}

func TestShuffleIsDeterministicForSameSeed(t *testing.T) {
	a := NewShoe(rand.New(rand.NewSource(42)))
	b := NewShoe(rand.New(rand.NewSource(42)))
	a.Shuffle()
	b.Shuffle()

	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("same seed produced different orders: %v vs %v", ca, cb)
		}
	}
}

func TestDrawFromEmptyShoe(t *testing.T) {
	shoe := NewShoe(nil)
	for i := 0; i < 52; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw %d failed: %v", i+1, err)
		}
	}

	_, err := shoe.Draw()
	if !errors.Is(err, ErrEmptyShoe) {
		t.Errorf("53rd draw error = %v, want ErrEmptyShoe", err)
	}
}

func TestDrawTakesTopCard(t *testing.T) {
	// Unshuffled order is deterministic: the last rank of the last suit is
	// on top.
	shoe := NewShoe(nil)
	card, err := shoe.Draw()
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if card.Suit != Spades || card.Rank != King {
		t.Errorf("top card = %v, want K of Spades", card)
	}
	if shoe.Remaining() != 51 {
		t.Errorf("Remaining() = %d, want 51", shoe.Remaining())
	}
}
