package game

import (
	"errors"
	"fmt"
)

// Rejected intents. These are expected during normal play: the engine reports
// them in MoveOutcome.Err and leaves the state untouched.
var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrInvalidPile        = errors.New("invalid pile or card position")
	ErrCardNotFound       = errors.New("card not found")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrStockEmpty         = errors.New("stock and waste are empty")
	ErrNotAutoCompletable = errors.New("game is not auto-completable")
	ErrInvalidDrawMode    = errors.New("draw mode must be 1 or 3")
	ErrNoGame             = errors.New("no game in progress")
)

// InvariantError signals that the engine broke one of its own invariants.
// It is a bug in the engine, never a consequence of caller input, so the
// engine panics with it instead of returning it.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant %q violated: %s", e.Invariant, e.Detail)
}

func invariantf(invariant, format string, args ...any) *InvariantError {
	return &InvariantError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}
