package game

func up(r Rank, s Suit) Card {
	return Card{CardID: CardID{Suit: s, Rank: r}, FaceUp: true}
}

func down(r Rank, s Suit) Card {
	return Card{CardID: CardID{Suit: s, Rank: r}}
}

// foundationUpTo returns the foundation of suit s holding Ace through r.
func foundationUpTo(s Suit, r Rank) []Card {
	f := make([]Card, 0, NumRanks)
	for rank := Ace; rank <= r; rank++ {
		f = append(f, up(rank, s))
	}
	return f
}

// emptyState returns a state with every pile empty, for building positions
// card by card.
func emptyState(drawMode int) *GameState {
	s := &GameState{
		ID:       "test",
		Stock:    []Card{},
		Waste:    []Card{},
		DrawMode: drawMode,
		History:  []MoveRecord{},
	}
	for i := range s.Foundations {
		s.Foundations[i] = []Card{}
	}
	for i := range s.Tableau {
		s.Tableau[i] = []Card{}
	}
	return s
}

// wonButOneState returns a complete, legal position where every card is on
// its foundation except the King of diamonds, alone on column 0.
func wonButOneState() *GameState {
	s := emptyState(1)
	for suit := Spades; suit <= Clubs; suit++ {
		s.Foundations[suit] = foundationUpTo(suit, King)
	}
	s.Foundations[Diamonds] = foundationUpTo(Diamonds, Queen)
	s.Tableau[0] = []Card{up(King, Diamonds)}
	return s
}

// alternatingRun returns a face-up run from King down to Ace alternating
// between suits a and b, starting with a.
func alternatingRun(a, b Suit) []Card {
	run := make([]Card, 0, NumRanks)
	for rank := King; rank >= Ace; rank-- {
		suit := a
		if (King-rank)%2 == 1 {
			suit = b
		}
		run = append(run, up(rank, suit))
	}
	return run
}

// autoCompletableState and blockedState have twins in the gametest package,
// which tests in this package can't import.

// autoCompletableState returns a complete position with all cards face-up in
// four alternating King-to-Ace runs and nothing on the foundations.
func autoCompletableState() *GameState {
	s := emptyState(1)
	s.Tableau[0] = alternatingRun(Spades, Hearts)
	s.Tableau[1] = alternatingRun(Hearts, Spades)
	s.Tableau[2] = alternatingRun(Clubs, Diamonds)
	s.Tableau[3] = alternatingRun(Diamonds, Clubs)
	return s
}

// blockedState returns a complete, legal position with no progress possible:
// every column shows a single spade (2 through 8) on top of face-down cards,
// with all aces buried, and the stock and waste are empty.
func blockedState() *GameState {
	s := emptyState(1)
	tops := make(map[CardID]bool)
	for col := range NumColumns {
		tops[CardID{Suit: Spades, Rank: Rank(col + 2)}] = true
	}
	col := 0
	for _, c := range NewDeck() {
		if tops[c.CardID] {
			continue
		}
		s.Tableau[col] = append(s.Tableau[col], c)
		col = (col + 1) % NumColumns
	}
	for col := range NumColumns {
		s.Tableau[col] = append(s.Tableau[col], up(Rank(col+2), Spades))
	}
	return s
}
