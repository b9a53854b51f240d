package game

// IsAutoCompletable reports whether the game can be finished by moving tableau
// cards to the foundations alone: stock and waste are empty, every tableau card
// is face-up and at least one tableau pile still has cards.
func IsAutoCompletable(s *GameState) bool {
	if len(s.Stock) > 0 || len(s.Waste) > 0 {
		return false
	}
	nonEmpty := false
	for _, pile := range s.Tableau {
		for _, c := range pile {
			if !c.FaceUp {
				return false
			}
		}
		if len(pile) > 0 {
			nonEmpty = true
		}
	}
	return nonEmpty
}

// NextAutoMove selects the tableau top card with the lowest rank among those
// that can go to their foundation; ties go to the lowest column.
func NextAutoMove(s *GameState) (Move, bool) {
	var best Move
	found := false
	for col, pile := range s.Tableau {
		if len(pile) == 0 {
			continue
		}
		top := pile[len(pile)-1]
		if !top.FaceUp || !CanMoveToFoundation(top, top.Suit, s.Foundations[top.Suit]) {
			continue
		}
		if found && top.Rank >= best.Card.Rank {
			continue
		}
		best = Move{
			From:       TableauPile(col),
			Index:      len(pile) - 1,
			To:         FoundationPile(top.Suit),
			Card:       top.CardID,
			Productive: true,
		}
		found = true
	}
	return best, found
}

// AutoCompleteStep plays one auto-complete move. done is true once the game is
// won, including when this step won it.
//
// A position that is not auto-completable returns ErrNotAutoCompletable. In an
// auto-completable position there is always a foundation move (the lowest card
// not yet on the foundations is necessarily a tableau top), so not finding one
// is an invariant violation and panics with an *InvariantError.
func (s *GameState) AutoCompleteStep() (rec MoveRecord, done bool, err error) {
	if IsWon(s) {
		return MoveRecord{}, true, nil
	}
	if !IsAutoCompletable(s) {
		return MoveRecord{}, true, ErrNotAutoCompletable
	}
	m, ok := NextAutoMove(s)
	if !ok {
		panic(invariantf("auto-complete", "no foundation move in auto-completable position:\n%s", s))
	}
	rec, err = s.ApplyMove(m.From, m.Index, m.To)
	if err != nil {
		panic(invariantf("auto-complete", "selected move %+v rejected: %v", m, err))
	}
	return rec, IsWon(s), nil
}
