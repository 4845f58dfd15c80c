package cards

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted is returned when dealing from an empty deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an owned, mutable sequence of cards consumed from the top by dealing.
type Deck struct {
	cards Stack
}

// NewDeck creates a standard 52-card deck shuffled with the given source.
// A nil rng leaves the deck unshuffled, which is only useful for tests.
func NewDeck(rng *rand.Rand) *Deck {
	deck := make(Stack, 0, 52)
	for _, suit := range Suits {
		for _, value := range Values {
			deck = append(deck, Card{Suit: suit, Value: value})
		}
	}

	if rng != nil {
		rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
	}

	return &Deck{cards: deck}
}

// NewStackedDeck creates a deck that deals the given cards in order.
// Used by tests that need deterministic hands.
func NewStackedDeck(stack Stack) *Deck {
	return &Deck{cards: stack.Clone()}
}

// Deal removes and returns the top card of the deck.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DealN removes and returns the top n cards of the deck.
func (d *Deck) DealN(n int) (Stack, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}

	dealt := d.cards[:n].Clone()
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
