package game

import "fmt"

// RandomSource is the source of randomness used to shuffle the deck.
// *rand.Rand from math/rand/v2 implements it; tests inject a seeded one so
// deals are reproducible.
type RandomSource interface {
	// IntN returns a uniform random integer in [0, n).
	IntN(n int) int
}

// NewDeck creates the 52 cards, face-down, in suit then rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, Card{CardID: CardID{Suit: suit, Rank: rank}})
		}
	}
	return deck
}

// CreateShuffledDeck creates the 52 cards face-down and shuffles them with a
// Fisher–Yates shuffle driven by rng.
func CreateShuffledDeck(rng RandomSource) []Card {
	deck := NewDeck()
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Deal lays out the tableau from the top of deck: column i (0-indexed) receives
// NumColumns-i cards and only the last card dealt to each column is face-up.
// The rest of the deck becomes the stock, face-down, in its original order.
//
// deck is not modified. It fails if deck is too short to fill the tableau.
func Deal(deck []Card) (tableau [NumColumns][]Card, stock []Card, err error) {
	needed := NumColumns * (NumColumns + 1) / 2
	if len(deck) < needed {
		return tableau, nil, fmt.Errorf("deal needs at least %d cards, got %d", needed, len(deck))
	}
	top := len(deck)
	for col := range NumColumns {
		n := NumColumns - col
		pile := make([]Card, 0, n+NumRanks)
		for range n {
			top--
			c := deck[top]
			c.FaceUp = false
			pile = append(pile, c)
		}
		pile[len(pile)-1].FaceUp = true
		tableau[col] = pile
	}
	stock = make([]Card, top)
	for i, c := range deck[:top] {
		c.FaceUp = false
		stock[i] = c
	}
	return tableau, stock, nil
}
