package game

import "fmt"

// CanMoveToTableau reports whether card may be placed on top of pile: a King
// on an empty pile, or a card one rank lower and of the opposite color than
// the pile's face-up top card.
func CanMoveToTableau(card Card, pile []Card) bool {
	if len(pile) == 0 {
		return card.Rank == King
	}
	top := pile[len(pile)-1]
	return top.FaceUp && top.Color() != card.Color() && top.Rank == card.Rank+1
}

// CanMoveToFoundation reports whether card may be placed on the foundation of
// suit, whose current cards are given.
func CanMoveToFoundation(card Card, suit Suit, foundation []Card) bool {
	if card.Suit != suit {
		return false
	}
	if len(foundation) == 0 {
		return card.Rank == Ace
	}
	return foundation[len(foundation)-1].Rank == card.Rank-1
}

// IsValidRun reports whether cards, bottom to top, are all face-up with
// alternating colors and ranks descending by one.
func IsValidRun(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	for i, c := range cards {
		if !c.FaceUp {
			return false
		}
		if i == 0 {
			continue
		}
		below := cards[i-1]
		if below.Color() == c.Color() || below.Rank != c.Rank+1 {
			return false
		}
	}
	return true
}

// faceUpStart returns the index of the first card of the face-up suffix of a
// tableau pile, or len(pile) if its top card is face-down (or it is empty).
func faceUpStart(pile []Card) int {
	i := len(pile)
	for i > 0 && pile[i-1].FaceUp {
		i--
	}
	return i
}

// MovableCards returns the cards that would move if the card at position index
// of pile from were picked up: the single top card of the waste or a foundation,
// or the face-up run from index to the top of a tableau pile.
func MovableCards(s *GameState, from PileRef, index int) ([]Card, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: source %v", ErrInvalidPile, from)
	}
	pile := s.Pile(from)
	if index < 0 || index >= len(pile) {
		return nil, fmt.Errorf("%w: position %d of %v with %d cards", ErrInvalidPile, index, from, len(pile))
	}
	switch from.Kind {
	case PileStock:
		return nil, fmt.Errorf("%w: cards can't be moved out of the stock, draw instead", ErrIllegalMove)
	case PileWaste, PileFoundation:
		if index != len(pile)-1 {
			return nil, fmt.Errorf("%w: only the top card of %v can move", ErrIllegalMove, from)
		}
		return pile[index:], nil
	}
	run := pile[index:]
	if !IsValidRun(run) {
		return nil, fmt.Errorf("%w: %v from %v is not a face-up run", ErrIllegalMove, run, from)
	}
	return run, nil
}

// ValidateMove checks whether the cards picked at position index of from may
// be dropped on to, and returns them.
func ValidateMove(s *GameState, from PileRef, index int, to PileRef) ([]Card, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: destination %v", ErrInvalidPile, to)
	}
	cards, err := MovableCards(s, from, index)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: source and destination are both %v", ErrIllegalMove, from)
	}
	switch to.Kind {
	case PileFoundation:
		if len(cards) != 1 {
			return nil, fmt.Errorf("%w: only one card at a time goes to a foundation", ErrIllegalMove)
		}
		if !CanMoveToFoundation(cards[0], Suit(to.Index), s.Foundations[to.Index]) {
			return nil, fmt.Errorf("%w: %v can't go on %v", ErrIllegalMove, cards[0], to)
		}
	case PileTableau:
		if !CanMoveToTableau(cards[0], s.Tableau[to.Index]) {
			return nil, fmt.Errorf("%w: %v can't go on %v", ErrIllegalMove, cards[0], to)
		}
	default:
		return nil, fmt.Errorf("%w: cards can't be dropped on the %v", ErrIllegalMove, to)
	}
	return cards, nil
}
