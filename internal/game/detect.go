package game

// StockCyclesBeforeExhausted is how many times the stock must have been
// recycled before the stuck detector may consider the stock and waste useless.
var StockCyclesBeforeExhausted = 2

// Move is a legal move found by searching a position.
type Move struct {
	From  PileRef `json:"from"`
	Index int     `json:"index"` // Position in From of the bottom card moved.
	To    PileRef `json:"to"`
	Card  CardID  `json:"card"` // Bottom card moved.

	// Productive moves make progress: anything but shuffling cards between
	// tableau piles (or back from a foundation) without revealing anything.
	Productive bool `json:"productive"`
}

// IsWon reports whether all four foundations are complete.
func IsWon(s *GameState) bool {
	for _, f := range s.Foundations {
		if len(f) != NumRanks {
			return false
		}
	}
	return true
}

// IsMoveProductive reports whether moving the run starting at position index of
// tableau column from onto column to makes progress: it reveals a face-down
// card, the target column still hides face-down cards under its run, or the
// run leaves cards behind when it moves into an empty column.
//
// A move between two fully face-up, non-empty piles is never productive: such
// a card can oscillate between them forever. Moving into an empty column is
// narrower than "target is empty": a whole pile moved that way leaves an empty
// column behind, and a King could go back and forth forever.
func IsMoveProductive(s *GameState, from, index, to int) bool {
	src, dst := s.Tableau[from], s.Tableau[to]
	if index > 0 && !src[index-1].FaceUp {
		return true
	}
	if len(dst) == 0 {
		// Moving a whole pile to another empty column changes nothing.
		return index > 0
	}
	return faceUpStart(dst) > 0
}

// FindMoves lists every legal card move in the position (draws excluded),
// flagging the productive ones. Sources are scanned waste first, then the
// tableau columns, then the foundations; foundation targets come first.
func FindMoves(s *GameState) []Move {
	var moves []Move
	try := func(from PileRef, index int) {
		targets := make([]PileRef, 0, NumSuits+NumColumns)
		for suit := Spades; suit <= Clubs; suit++ {
			targets = append(targets, FoundationPile(suit))
		}
		for col := range NumColumns {
			targets = append(targets, TableauPile(col))
		}
		for _, to := range targets {
			cards, err := ValidateMove(s, from, index, to)
			if err != nil {
				continue
			}
			m := Move{From: from, Index: index, To: to, Card: cards[0].CardID}
			switch {
			case from.Kind == PileFoundation:
				m.Productive = false
			case to.Kind == PileFoundation, from.Kind == PileWaste:
				// Both are irreversible.
				m.Productive = true
			default:
				m.Productive = IsMoveProductive(s, from.Index, index, to.Index)
			}
			moves = append(moves, m)
		}
	}

	if len(s.Waste) > 0 {
		try(WastePile(), len(s.Waste)-1)
	}
	for col, pile := range s.Tableau {
		for i := faceUpStart(pile); i < len(pile); i++ {
			try(TableauPile(col), i)
		}
	}
	for suit, f := range s.Foundations {
		if len(f) > 0 {
			try(FoundationPile(Suit(suit)), len(f)-1)
		}
	}
	return moves
}

// StockExhausted reports whether the stock and waste can be assumed to hold
// nothing useful: the stock was recycled at least StockCyclesBeforeExhausted
// times and a whole pass through it, plus whatever was drawn since, went by
// without a single move.
func StockExhausted(s *GameState) bool {
	return s.StockCycles >= StockCyclesBeforeExhausted &&
		s.MovesSinceLastCycle == 0 && s.LastCycleMoves == 0
}

// HasAnyLegalMove reports whether the game can still progress: some waste or
// tableau card can go to a foundation, some productive tableau move exists
// (which covers every way of revealing a face-down card), or the stock and
// waste may still hold useful cards.
func HasAnyLegalMove(s *GameState) bool {
	for _, m := range FindMoves(s) {
		if m.Productive {
			return true
		}
	}
	if len(s.Stock)+len(s.Waste) > 0 && !StockExhausted(s) {
		return true
	}
	return false
}

// IsStuck reports whether the game is not won and can no longer progress.
// It is advisory: it never changes the state.
func IsStuck(s *GameState) bool {
	return !IsWon(s) && !HasAnyLegalMove(s)
}

// Hint returns a productive move, preferring moves to the foundations.
func Hint(s *GameState) (Move, bool) {
	var best Move
	found := false
	for _, m := range FindMoves(s) {
		if !m.Productive {
			continue
		}
		if m.To.Kind == PileFoundation {
			return m, true
		}
		if !found {
			best, found = m, true
		}
	}
	return best, found
}
