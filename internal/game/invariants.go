package game

// CheckInvariants verifies the structural invariants of a game state and
// returns an *InvariantError describing the first one broken, or nil.
//
//   - Every one of the 52 cards is in exactly one pile.
//   - The stock is face-down and the waste face-up.
//   - Each foundation is an ascending run of its suit starting at the Ace.
//   - Face-up tableau cards sit on a card one rank higher of the opposite
//     color, no face-down card lies on a face-up one, and non-empty tableau
//     piles have a face-up top.
//   - The history holds exactly MoveCount records.
func CheckInvariants(s *GameState) error {
	if s.DrawMode != 1 && s.DrawMode != 3 {
		return invariantf("draw-mode", "draw mode is %d", s.DrawMode)
	}

	seen := make(map[CardID]PileRef, DeckSize)
	count := 0
	place := func(ref PileRef, cards []Card) error {
		for _, c := range cards {
			if !c.CardID.Valid() {
				return invariantf("card-conservation", "invalid card %v in %v", c.CardID, ref)
			}
			if prev, dup := seen[c.CardID]; dup {
				return invariantf("card-conservation", "%v is both in %v and %v", c.CardID, prev, ref)
			}
			seen[c.CardID] = ref
			count++
		}
		return nil
	}

	if err := place(StockPile(), s.Stock); err != nil {
		return err
	}
	for _, c := range s.Stock {
		if c.FaceUp {
			return invariantf("stock-face-down", "%v is face-up in the stock", c.CardID)
		}
	}
	if err := place(WastePile(), s.Waste); err != nil {
		return err
	}
	for _, c := range s.Waste {
		if !c.FaceUp {
			return invariantf("waste-face-up", "%v is face-down in the waste", c.CardID)
		}
	}

	for suit := Spades; suit <= Clubs; suit++ {
		f := s.Foundations[suit]
		if err := place(FoundationPile(suit), f); err != nil {
			return err
		}
		for i, c := range f {
			if c.Suit != suit || c.Rank != Rank(i+1) || !c.FaceUp {
				return invariantf("foundation-order", "foundation %v holds %v at position %d", suit, c, i)
			}
		}
	}

	for col, pile := range s.Tableau {
		if err := place(TableauPile(col), pile); err != nil {
			return err
		}
		if len(pile) > 0 && !pile[len(pile)-1].FaceUp {
			return invariantf("tableau-order", "column %d has a face-down top card", col)
		}
		for i := 1; i < len(pile); i++ {
			below, c := pile[i-1], pile[i]
			if below.FaceUp && !c.FaceUp {
				return invariantf("tableau-order", "column %d: face-down %v on face-up %v", col, c.CardID, below.CardID)
			}
			if below.FaceUp && c.FaceUp && (below.Color() == c.Color() || below.Rank != c.Rank+1) {
				return invariantf("tableau-order", "column %d: %v on %v", col, c, below)
			}
		}
	}

	if count != DeckSize {
		return invariantf("card-conservation", "%d cards on the table, want %d", count, DeckSize)
	}

	if len(s.History) != s.MoveCount {
		return invariantf("history", "%d records for %d moves", len(s.History), s.MoveCount)
	}
	if s.UndoFloor < 0 || s.UndoFloor > len(s.History) {
		return invariantf("history", "undo floor %d out of range [0, %d]", s.UndoFloor, len(s.History))
	}
	if s.MovesSinceLastCycle < 0 || s.StockCycles < 0 {
		return invariantf("counters", "moves since last cycle %d, stock cycles %d", s.MovesSinceLastCycle, s.StockCycles)
	}
	return nil
}
