package game

import (
	"fmt"
	"strings"
)

// NumColumns is the number of tableau columns.
const NumColumns = 7

// DeckSize is the number of cards in play.
const DeckSize = NumSuits * NumRanks

// PileKind identifies one of the kinds of pile on the table.
type PileKind int

const (
	PileStock PileKind = iota
	PileWaste
	PileFoundation
	PileTableau
)

var pileKindNames = []string{"stock", "waste", "foundation", "tableau"}

func (k PileKind) String() string {
	if k < PileStock || k > PileTableau {
		return fmt.Sprintf("PileKind(%d)", int(k))
	}
	return pileKindNames[k]
}

// MarshalText encodes the pile kind by name.
func (k PileKind) MarshalText() ([]byte, error) {
	if k < PileStock || k > PileTableau {
		return nil, fmt.Errorf("invalid pile kind %d", int(k))
	}
	return []byte(pileKindNames[k]), nil
}

// UnmarshalText decodes a pile kind name.
func (k *PileKind) UnmarshalText(text []byte) error {
	for i, n := range pileKindNames {
		if n == string(text) {
			*k = PileKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pile kind %q", string(text))
}

// PileRef addresses one pile. Index is the column (0..6) for tableau piles and
// the Suit for foundations; it is ignored for the stock and the waste.
type PileRef struct {
	Kind  PileKind `json:"kind"`
	Index int      `json:"index,omitempty"`
}

// StockPile references the stock.
func StockPile() PileRef { return PileRef{Kind: PileStock} }

// WastePile references the waste.
func WastePile() PileRef { return PileRef{Kind: PileWaste} }

// FoundationPile references the foundation of the given suit.
func FoundationPile(s Suit) PileRef { return PileRef{Kind: PileFoundation, Index: int(s)} }

// TableauPile references the tableau column col (0-indexed).
func TableauPile(col int) PileRef { return PileRef{Kind: PileTableau, Index: col} }

func (p PileRef) String() string {
	switch p.Kind {
	case PileFoundation:
		return fmt.Sprintf("foundation[%s]", Suit(p.Index))
	case PileTableau:
		return fmt.Sprintf("tableau[%d]", p.Index)
	}
	return p.Kind.String()
}

// Valid reports whether the reference points to an existing pile.
func (p PileRef) Valid() bool {
	switch p.Kind {
	case PileStock, PileWaste:
		return true
	case PileFoundation:
		return Suit(p.Index).Valid()
	case PileTableau:
		return p.Index >= 0 && p.Index < NumColumns
	}
	return false
}

// GameState holds the whole table of one game. It is owned by an Engine and
// only mutated through it.
//
// Every pile is ordered bottom to top: the last element is the top card.
type GameState struct {
	ID          string             `json:"id"`
	Stock       []Card             `json:"stock"`
	Waste       []Card             `json:"waste"`
	Foundations [NumSuits][]Card   `json:"foundations"`
	Tableau     [NumColumns][]Card `json:"tableau"`

	DrawMode            int `json:"draw_mode"` // Cards revealed per draw: 1 or 3.
	MoveCount           int `json:"move_count"`
	StockCycles         int `json:"stock_cycles"`           // Times the waste was recycled into the stock.
	MovesSinceLastCycle int `json:"moves_since_last_cycle"` // Tableau/foundation moves since the last recycle.
	LastCycleMoves      int `json:"last_cycle_moves"`       // Moves made during the stock pass that ended at the last recycle.

	History []MoveRecord `json:"-"`
	// UndoFloor is the history length at the last recycle: records below it can't be undone.
	UndoFloor int `json:"-"`
}

// Pile returns the cards of the referenced pile, or nil for an invalid reference.
// The returned slice aliases the state.
func (s *GameState) Pile(p PileRef) []Card {
	if !p.Valid() {
		return nil
	}
	switch p.Kind {
	case PileStock:
		return s.Stock
	case PileWaste:
		return s.Waste
	case PileFoundation:
		return s.Foundations[p.Index]
	default:
		return s.Tableau[p.Index]
	}
}

// pilePtr returns a pointer to the referenced pile; p must be valid.
func (s *GameState) pilePtr(p PileRef) *[]Card {
	switch p.Kind {
	case PileStock:
		return &s.Stock
	case PileWaste:
		return &s.Waste
	case PileFoundation:
		return &s.Foundations[p.Index]
	default:
		return &s.Tableau[p.Index]
	}
}

// Locate returns the pile and position of the card with the given identity.
func (s *GameState) Locate(id CardID) (PileRef, int, bool) {
	refs := make([]PileRef, 0, 2+NumSuits+NumColumns)
	refs = append(refs, StockPile(), WastePile())
	for suit := Spades; suit <= Clubs; suit++ {
		refs = append(refs, FoundationPile(suit))
	}
	for col := range NumColumns {
		refs = append(refs, TableauPile(col))
	}
	for _, ref := range refs {
		for i, c := range s.Pile(ref) {
			if c.CardID == id {
				return ref, i, true
			}
		}
	}
	return PileRef{}, -1, false
}

// Clone returns a deep copy of the state, history included.
func (s *GameState) Clone() *GameState {
	clone := *s
	clone.Stock = cloneCards(s.Stock)
	clone.Waste = cloneCards(s.Waste)
	for i := range s.Foundations {
		clone.Foundations[i] = cloneCards(s.Foundations[i])
	}
	for i := range s.Tableau {
		clone.Tableau[i] = cloneCards(s.Tableau[i])
	}
	clone.History = make([]MoveRecord, len(s.History))
	for i, rec := range s.History {
		rec.Cards = cloneCards(rec.Cards)
		clone.History[i] = rec
	}
	return &clone
}

func cloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// CanUndo reports whether there is a move record that undo can reverse.
func (s *GameState) CanUndo() bool {
	return len(s.History) > s.UndoFloor
}

func (s *GameState) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game %s: draw=%d, moves=%d, cycles=%d, stock=%d, waste=%v\n",
		s.ID, s.DrawMode, s.MoveCount, s.StockCycles, len(s.Stock), s.Waste)
	for suit := Spades; suit <= Clubs; suit++ {
		fmt.Fprintf(&sb, "  %-8s %v\n", suit, s.Foundations[suit])
	}
	for col, pile := range s.Tableau {
		fmt.Fprintf(&sb, "  col %d    %v\n", col, pile)
	}
	return sb.String()
}
