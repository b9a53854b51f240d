package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// EventKind identifies the events an Engine raises for renderers.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventWon          EventKind = "won"
	EventUnwinnable   EventKind = "unwinnable"
)

// Event is raised by the Engine after it changes or evaluates the game.
type Event struct {
	Kind EventKind
	// State is a snapshot taken when the event was raised; listeners may keep it.
	State *GameState
	// DrawMode of the game, set for EventUnwinnable.
	DrawMode int
}

// MoveOutcome is the result of an intent issued to the Engine. Rejected intents
// have Success false, Err set and leave the game untouched.
type MoveOutcome struct {
	Success bool  `json:"success"`
	Err     error `json:"-"`

	// Record applied, or reversed for an undo. Nil for a stock recycle.
	Record   *MoveRecord `json:"record,omitempty"`
	Undone   bool        `json:"undone,omitempty"`
	Recycled bool        `json:"recycled,omitempty"`
}

func rejected(err error) MoveOutcome {
	return MoveOutcome{Err: err}
}

// Engine owns one game at a time and is the only way to change it: every
// operation runs to completion, validates the intent, mutates the state
// atomically and then raises its events.
//
// An Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	state     *GameState
	listeners []func(Event)

	wonRaised        bool
	unwinnableRaised bool
}

// NewEngine creates an Engine with no game in progress.
func NewEngine() *Engine {
	return &Engine{}
}

// Subscribe registers fn to be called with every event, in order of registration.
func (e *Engine) Subscribe(fn func(Event)) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) emit(ev Event) {
	for _, fn := range e.listeners {
		fn(ev)
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewGame discards the current game, if any, and deals a new one shuffled with
// rng. If rng is nil the global math/rand/v2 generator is used.
func (e *Engine) NewGame(drawMode int, rng RandomSource) (*GameState, error) {
	if drawMode != 1 && drawMode != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDrawMode, drawMode)
	}
	if rng == nil {
		rng = globalRand{}
	}
	tableau, stock, err := Deal(CreateShuffledDeck(rng))
	if err != nil {
		return nil, err
	}
	s := &GameState{
		ID:       uuid.NewString(),
		Stock:    stock,
		Waste:    make([]Card, 0, len(stock)),
		Tableau:  tableau,
		DrawMode: drawMode,
		History:  make([]MoveRecord, 0, 64),
	}
	for i := range s.Foundations {
		s.Foundations[i] = make([]Card, 0, NumRanks)
	}
	e.state = s
	e.wonRaised = false
	klog.V(1).Infof("New game %s, draw mode %d", s.ID, drawMode)
	e.changed()
	return s.Clone(), nil
}

// LoadState replaces the current game with a copy of s, after checking its
// invariants. It is used to resume from a snapshot or to set up positions.
//
// Snapshots decoded from JSON carry no history: the move counter restarts at
// zero and earlier moves can't be undone.
func (e *Engine) LoadState(s *GameState) error {
	if s == nil {
		return fmt.Errorf("can't load game state: %w", ErrNoGame)
	}
	loaded := s.Clone()
	if len(loaded.History) == 0 {
		loaded.MoveCount = 0
		loaded.UndoFloor = 0
	}
	if err := CheckInvariants(loaded); err != nil {
		return fmt.Errorf("can't load game state: %w", err)
	}
	e.state = loaded
	if e.state.ID == "" {
		e.state.ID = uuid.NewString()
	}
	e.wonRaised = false
	e.changed()
	return nil
}

// State returns a snapshot of the current game, or nil if there is none.
func (e *Engine) State() *GameState {
	if e.state == nil {
		return nil
	}
	return e.state.Clone()
}

// Draw turns over cards from the stock, or recycles the waste when the stock is empty.
func (e *Engine) Draw() MoveOutcome {
	if e.state == nil {
		return rejected(ErrNoGame)
	}
	rec, recycled, err := e.state.DrawFromStock()
	if err != nil {
		klog.V(2).Infof("Game %s: draw rejected: %v", e.state.ID, err)
		return rejected(err)
	}
	e.changed()
	return MoveOutcome{Success: true, Record: rec, Recycled: recycled}
}

// AttemptMove moves the card with identity card, plus any cards above it, to
// the pile to.
func (e *Engine) AttemptMove(card CardID, to PileRef) MoveOutcome {
	if e.state == nil {
		return rejected(ErrNoGame)
	}
	from, index, ok := e.state.Locate(card)
	if !ok {
		return rejected(fmt.Errorf("%w: %v", ErrCardNotFound, card))
	}
	return e.Move(from, index, to)
}

// Move moves the card at position index of from, plus any cards above it, to the pile to.
func (e *Engine) Move(from PileRef, index int, to PileRef) MoveOutcome {
	if e.state == nil {
		return rejected(ErrNoGame)
	}
	rec, err := e.state.ApplyMove(from, index, to)
	if err != nil {
		klog.V(2).Infof("Game %s: move rejected: %v", e.state.ID, err)
		return rejected(err)
	}
	klog.V(2).Infof("Game %s: %v", e.state.ID, rec)
	e.changed()
	return MoveOutcome{Success: true, Record: &rec}
}

// Undo reverses the most recent move or draw.
func (e *Engine) Undo() MoveOutcome {
	if e.state == nil {
		return rejected(ErrNoGame)
	}
	rec, err := e.state.Undo()
	if err != nil {
		klog.V(2).Infof("Game %s: undo rejected: %v", e.state.ID, err)
		return rejected(err)
	}
	e.changed()
	return MoveOutcome{Success: true, Record: &rec, Undone: true}
}

// AutoCompleteStep plays a single auto-complete move. Callers animating the
// auto-complete invoke it on their own schedule until done is true, and may
// stop at any point: the game is consistent after every step.
func (e *Engine) AutoCompleteStep() (outcome MoveOutcome, done bool) {
	if e.state == nil {
		return rejected(ErrNoGame), true
	}
	if IsWon(e.state) {
		return MoveOutcome{}, true
	}
	rec, done, err := e.state.AutoCompleteStep()
	if err != nil {
		return rejected(err), true
	}
	klog.V(2).Infof("Game %s: auto-complete %v", e.state.ID, rec)
	e.changed()
	return MoveOutcome{Success: true, Record: &rec}, done
}

// IsWon reports whether the current game is won.
func (e *Engine) IsWon() bool {
	return e.state != nil && IsWon(e.state)
}

// IsStuck reports whether the current game can no longer progress.
func (e *Engine) IsStuck() bool {
	return e.state != nil && IsStuck(e.state)
}

// IsAutoCompletable reports whether AutoCompleteStep can finish the current game.
func (e *Engine) IsAutoCompletable() bool {
	return e.state != nil && IsAutoCompletable(e.state)
}

// CheckIfStuck is IsStuck that also raises EventUnwinnable, once per stuck
// position. Callers invoke it some time after a move or draw.
func (e *Engine) CheckIfStuck() bool {
	if !e.IsStuck() {
		return false
	}
	if !e.unwinnableRaised {
		e.unwinnableRaised = true
		klog.V(1).Infof("Game %s is unwinnable after %d moves", e.state.ID, e.state.MoveCount)
		e.emit(Event{Kind: EventUnwinnable, State: e.state.Clone(), DrawMode: e.state.DrawMode})
	}
	return true
}

// Hint returns a productive move in the current game, if there is one.
func (e *Engine) Hint() (Move, bool) {
	if e.state == nil {
		return Move{}, false
	}
	return Hint(e.state)
}

// Locate returns where the card with identity id currently is.
func (e *Engine) Locate(id CardID) (PileRef, int, bool) {
	if e.state == nil {
		return PileRef{}, -1, false
	}
	return e.state.Locate(id)
}

// changed verifies the invariants after a mutation and raises the events.
func (e *Engine) changed() {
	if err := CheckInvariants(e.state); err != nil {
		var invErr *InvariantError
		if errors.As(err, &invErr) {
			panic(invErr)
		}
		panic(err)
	}
	e.unwinnableRaised = false
	snapshot := e.state.Clone()
	e.emit(Event{Kind: EventStateChanged, State: snapshot})
	won := IsWon(e.state)
	if won && !e.wonRaised {
		klog.V(1).Infof("Game %s won in %d moves", e.state.ID, e.state.MoveCount)
		e.emit(Event{Kind: EventWon, State: snapshot})
	}
	e.wonRaised = won
}
