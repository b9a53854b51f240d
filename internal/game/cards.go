package game

import (
	"fmt"
	"strings"
)

// Suit of a card. Its value indexes GameState.Foundations.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// NumSuits is the number of suits, and also of foundation piles.
const NumSuits = 4

var suitNames = []string{"spades", "hearts", "diamonds", "clubs"}

// String returns the lower-case suit name, e.g. "hearts".
func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Spades && s <= Clubs
}

// Color of the suit: hearts and diamonds are red, the others black.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// MarshalText encodes the suit by name for the JSON wire messages.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(suitNames[s]), nil
}

// UnmarshalText decodes a suit name.
func (s *Suit) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range suitNames {
		if n == name {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", string(text))
}

// Color of a suit.
type Color int

const (
	Black Color = iota
	Red
)

// Rank of a card, Ace=1 through King=13. Adjacency checks use the ordinal value.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumRanks is the number of ranks per suit, and the length of a complete foundation.
const NumRanks = 13

// String returns the rank as it is printed on a card: "A", "2" ... "10", "J", "Q", "K".
func (r Rank) String() string {
	ranks := []string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	if r < Ace || r > King {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return ranks[r]
}

// CardID is the immutable identity of a card. Renderers key their visuals by it.
type CardID struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns the card identity as rank and suit initial, e.g. "10H" or "QS".
func (id CardID) String() string {
	return id.Rank.String() + strings.ToUpper(id.Suit.String()[:1])
}

// Valid reports whether the identity is one of the 52 cards.
func (id CardID) Valid() bool {
	return id.Suit.Valid() && id.Rank >= Ace && id.Rank <= King
}

// Card is a card identity plus its current orientation.
type Card struct {
	CardID
	FaceUp bool `json:"face_up"`
}

// ID returns the identity of the card, dropping its orientation.
func (c Card) ID() CardID { return c.CardID }

// Color of the card's suit.
func (c Card) Color() Color { return c.Suit.Color() }

// String returns the identity, with face-down cards in brackets, e.g. "[7C]".
func (c Card) String() string {
	if !c.FaceUp {
		return "[" + c.CardID.String() + "]"
	}
	return c.CardID.String()
}
