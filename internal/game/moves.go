package game

import "fmt"

// MoveKind tags the variant of a MoveRecord.
type MoveKind int

const (
	MoveDraw MoveKind = iota
	MoveToTableau
	MoveToFoundation
)

var moveKindNames = []string{"draw", "to_tableau", "to_foundation"}

func (k MoveKind) String() string {
	if k < MoveDraw || k > MoveToFoundation {
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
	return moveKindNames[k]
}

// MarshalText encodes the move kind by name.
func (k MoveKind) MarshalText() ([]byte, error) {
	if k < MoveDraw || k > MoveToFoundation {
		return nil, fmt.Errorf("invalid move kind %d", int(k))
	}
	return []byte(moveKindNames[k]), nil
}

// UnmarshalText decodes a move kind name.
func (k *MoveKind) UnmarshalText(text []byte) error {
	for i, n := range moveKindNames {
		if n == string(text) {
			*k = MoveKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown move kind %q", string(text))
}

// MoveRecord is one entry of the undo history, with enough information to
// reverse the move exactly.
type MoveRecord struct {
	Kind MoveKind `json:"kind"`
	From PileRef  `json:"from"`
	To   PileRef  `json:"to"`

	// Cards moved, bottom to top as they landed on To. For a draw, in the
	// order they were turned over, so the last one is the new waste top.
	Cards []Card `json:"cards"`

	// Flipped is the card of a tableau source that was turned face-up because
	// the move uncovered it. Undo turns it face-down again.
	Flipped *CardID `json:"flipped,omitempty"`
}

// Count returns the number of cards moved.
func (r MoveRecord) Count() int { return len(r.Cards) }

func (r MoveRecord) String() string {
	s := fmt.Sprintf("%s %v: %v -> %v", r.Kind, r.Cards, r.From, r.To)
	if r.Flipped != nil {
		s += fmt.Sprintf(" (flipped %v)", *r.Flipped)
	}
	return s
}

func (r MoveRecord) clone() MoveRecord {
	r.Cards = cloneCards(r.Cards)
	if r.Flipped != nil {
		id := *r.Flipped
		r.Flipped = &id
	}
	return r
}

// ApplyMove moves the card at position index of from, together with every card
// above it, on top of to. If that uncovers a face-down tableau card, the card
// is turned face-up. On success the move is pushed to the history.
//
// Illegal moves return an error wrapping ErrIllegalMove or ErrInvalidPile and
// leave the state untouched.
func (s *GameState) ApplyMove(from PileRef, index int, to PileRef) (MoveRecord, error) {
	cards, err := ValidateMove(s, from, index, to)
	if err != nil {
		return MoveRecord{}, err
	}
	moved := cloneCards(cards)
	rec := MoveRecord{Kind: MoveToTableau, From: from, To: to, Cards: cloneCards(moved)}
	if to.Kind == PileFoundation {
		rec.Kind = MoveToFoundation
	}

	src := s.pilePtr(from)
	*src = (*src)[:index]
	dst := s.pilePtr(to)
	*dst = append(*dst, moved...)

	if from.Kind == PileTableau && len(*src) > 0 {
		top := &(*src)[len(*src)-1]
		if !top.FaceUp {
			top.FaceUp = true
			id := top.CardID
			rec.Flipped = &id
		}
	}

	s.History = append(s.History, rec)
	s.MoveCount++
	s.MovesSinceLastCycle++
	return rec.clone(), nil
}

// DrawFromStock turns over DrawMode cards (fewer if the stock runs short) from
// the stock onto the waste and records the draw.
//
// If the stock is empty the waste is recycled instead: reversed and turned
// face-down into the stock, so the next pass draws the cards in the same order.
// A recycle is not recorded in the history and can't be undone; it returns a
// nil record and recycled set to true.
func (s *GameState) DrawFromStock() (rec *MoveRecord, recycled bool, err error) {
	if len(s.Stock) == 0 {
		if len(s.Waste) == 0 {
			return nil, false, ErrStockEmpty
		}
		s.recycle()
		return nil, true, nil
	}

	n := min(max(s.DrawMode, 1), len(s.Stock))
	drawn := make([]Card, 0, n)
	for range n {
		c := s.Stock[len(s.Stock)-1]
		s.Stock = s.Stock[:len(s.Stock)-1]
		c.FaceUp = true
		s.Waste = append(s.Waste, c)
		drawn = append(drawn, c)
	}
	r := MoveRecord{Kind: MoveDraw, From: StockPile(), To: WastePile(), Cards: drawn}
	s.History = append(s.History, r)
	s.MoveCount++
	r = r.clone()
	return &r, false, nil
}

func (s *GameState) recycle() {
	stock := make([]Card, 0, len(s.Waste))
	for i := len(s.Waste) - 1; i >= 0; i-- {
		c := s.Waste[i]
		c.FaceUp = false
		stock = append(stock, c)
	}
	s.Stock = stock
	s.Waste = s.Waste[:0]
	s.StockCycles++
	s.LastCycleMoves = s.MovesSinceLastCycle
	s.MovesSinceLastCycle = 0
	s.UndoFloor = len(s.History)
}

// Undo pops the most recent move record and reverses it exactly, turning back
// face-down any card the move had uncovered. Records made before the last
// stock recycle can't be undone: ErrNothingToUndo is returned for them.
//
// It panics with an *InvariantError if the piles don't match the record.
func (s *GameState) Undo() (MoveRecord, error) {
	if !s.CanUndo() {
		return MoveRecord{}, ErrNothingToUndo
	}
	rec := s.History[len(s.History)-1]

	switch rec.Kind {
	case MoveDraw:
		n := rec.Count()
		if !topMatches(s.Waste, rec.Cards) {
			panic(invariantf("history", "waste top %v doesn't match drawn cards %v", s.Waste, rec.Cards))
		}
		for range n {
			c := s.Waste[len(s.Waste)-1]
			s.Waste = s.Waste[:len(s.Waste)-1]
			c.FaceUp = false
			s.Stock = append(s.Stock, c)
		}

	default:
		dst := s.pilePtr(rec.To)
		if !topMatches(*dst, rec.Cards) {
			panic(invariantf("history", "%v top %v doesn't match moved cards %v", rec.To, *dst, rec.Cards))
		}
		n := rec.Count()
		moved := cloneCards((*dst)[len(*dst)-n:])
		*dst = (*dst)[:len(*dst)-n]

		src := s.pilePtr(rec.From)
		if rec.Flipped != nil {
			if len(*src) == 0 || (*src)[len(*src)-1].CardID != *rec.Flipped {
				panic(invariantf("history", "%v top doesn't match flipped card %v", rec.From, *rec.Flipped))
			}
			(*src)[len(*src)-1].FaceUp = false
		}
		*src = append(*src, moved...)
		if s.MovesSinceLastCycle > 0 {
			s.MovesSinceLastCycle--
		}
	}

	s.History = s.History[:len(s.History)-1]
	s.MoveCount--
	return rec.clone(), nil
}

// topMatches reports whether the top of pile holds the identities of cards, in
// any order (a draw reverses them on the waste relative to the stock).
func topMatches(pile, cards []Card) bool {
	if len(pile) < len(cards) {
		return false
	}
	top := pile[len(pile)-len(cards):]
	want := make(map[CardID]bool, len(cards))
	for _, c := range cards {
		want[c.CardID] = true
	}
	for _, c := range top {
		if !want[c.CardID] {
			return false
		}
	}
	return true
}
