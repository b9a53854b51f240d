// Package gametest provides game positions for tests of packages built on
// the game engine.
//
// The engine's own tests keep their copies in helpers_test.go: they are in
// package game, which can't import gametest without an import cycle.
package gametest

import "github.com/janpfeifer/GoKlondike/internal/game"

func empty() *game.GameState {
	s := &game.GameState{
		ID:       "gametest",
		Stock:    []game.Card{},
		Waste:    []game.Card{},
		DrawMode: 1,
		History:  []game.MoveRecord{},
	}
	for i := range s.Foundations {
		s.Foundations[i] = []game.Card{}
	}
	for i := range s.Tableau {
		s.Tableau[i] = []game.Card{}
	}
	return s
}

func run(a, b game.Suit) []game.Card {
	cards := make([]game.Card, 0, game.NumRanks)
	for rank := game.King; rank >= game.Ace; rank-- {
		suit := a
		if (game.King-rank)%2 == 1 {
			suit = b
		}
		cards = append(cards, game.Card{CardID: game.CardID{Suit: suit, Rank: rank}, FaceUp: true})
	}
	return cards
}

// AutoCompletable returns a position with every card face-up in four
// alternating King-to-Ace columns, which auto-completes in 52 moves.
func AutoCompletable() *game.GameState {
	s := empty()
	s.Tableau[0] = run(game.Spades, game.Hearts)
	s.Tableau[1] = run(game.Hearts, game.Spades)
	s.Tableau[2] = run(game.Clubs, game.Diamonds)
	s.Tableau[3] = run(game.Diamonds, game.Clubs)
	return s
}

// Blocked returns a position where nothing can move: each column shows one
// spade, 2 through 8, over face-down cards, and the stock and waste are empty.
func Blocked() *game.GameState {
	s := empty()
	isTop := func(id game.CardID) bool {
		return id.Suit == game.Spades && id.Rank >= game.Two && id.Rank <= game.Eight
	}
	col := 0
	for _, c := range game.NewDeck() {
		if isTop(c.CardID) {
			continue
		}
		s.Tableau[col] = append(s.Tableau[col], c)
		col = (col + 1) % game.NumColumns
	}
	for col := range game.NumColumns {
		top := game.CardID{Suit: game.Spades, Rank: game.Rank(col + 2)}
		s.Tableau[col] = append(s.Tableau[col], game.Card{CardID: top, FaceUp: true})
	}
	return s
}
