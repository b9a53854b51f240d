package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoKlondike/internal/config"
	"github.com/janpfeifer/GoKlondike/internal/game"
	"k8s.io/klog/v2"
)

// Session is one client connection playing one game at a time.
//
// All access to the engine goes through mu, so intents from the client, the
// auto-complete loop and the delayed stuck check never interleave.
type Session struct {
	ID   string
	conn *websocket.Conn
	cfg  config.Config

	mu         sync.Mutex
	engine     *game.Engine
	events     []game.Event // Raised by the engine, not yet sent
	stopAuto   context.CancelFunc
	stuckTimer *time.Timer
	closed     bool
}

func newSession(id string, conn *websocket.Conn, cfg config.Config) *Session {
	s := &Session{
		ID:     id,
		conn:   conn,
		cfg:    cfg,
		engine: game.NewEngine(),
	}
	s.engine.Subscribe(func(ev game.Event) {
		s.events = append(s.events, ev)
	})
	return s
}

// Close stops the auto-complete loop and any pending stuck check.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopAutoCompleteLocked()
	if s.stuckTimer != nil {
		s.stuckTimer.Stop()
		s.stuckTimer = nil
	}
}

func (s *Session) readLoop(ctx context.Context) {
	for {
		var msg game.WsMessage
		err := wsjson.Read(ctx, s.conn, &msg)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				klog.V(1).Infof("Session %s: connection closed", s.ID)
			} else {
				klog.V(1).Infof("Session %s: WS read error: %v", s.ID, err)
			}
			return
		}
		s.handleMessage(msg)
	}
}

func (s *Session) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Warningf("Session %s: invalid %q message: %v", s.ID, msg.Type, err)
		s.sendError(err)
		return
	}
	klog.V(2).Infof("Session %s: received %s", s.ID, msg.Type)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch m := p.(type) {
	case *game.NewGameMessage:
		s.newGameLocked(m)
	case *game.DrawMessage:
		s.stopAutoCompleteLocked()
		s.intentLocked(s.engine.Draw())
	case *game.MoveMessage:
		s.stopAutoCompleteLocked()
		s.intentLocked(s.engine.AttemptMove(m.Card, m.To))
	case *game.UndoMessage:
		s.stopAutoCompleteLocked()
		s.intentLocked(s.engine.Undo())
	case *game.AutoCompleteMessage:
		s.startAutoCompleteLocked()
	case *game.CancelMessage:
		s.stopAutoCompleteLocked()
	case *game.HintMessage:
		move, found := s.engine.Hint()
		hint := game.HintMessage{Found: found}
		if found {
			hint.Move = &move
		}
		s.send(game.MsgTypeHint, hint)
	default:
		s.sendError(errors.New("unexpected message type " + string(msg.Type)))
	}
}

func (s *Session) newGameLocked(m *game.NewGameMessage) {
	s.stopAutoCompleteLocked()
	drawMode := m.DrawMode
	if drawMode == 0 {
		drawMode = s.cfg.DrawMode
	}
	var rng game.RandomSource
	if m.Seed != nil {
		rng = rand.New(rand.NewPCG(uint64(*m.Seed), 0))
	}
	if _, err := s.engine.NewGame(drawMode, rng); err != nil {
		s.sendError(err)
		return
	}
	s.flushLocked(nil)
	s.scheduleStuckCheckLocked()
}

// intentLocked reports the outcome of a player intent to the client.
func (s *Session) intentLocked(outcome game.MoveOutcome) {
	if !outcome.Success {
		s.sendError(outcome.Err)
		return
	}
	s.flushLocked(&outcome)
	s.scheduleStuckCheckLocked()
}

// flushLocked sends the events raised by the engine since the last flush.
// outcome, if given, is attached to the state messages.
func (s *Session) flushLocked(outcome *game.MoveOutcome) {
	events := s.events
	s.events = nil
	for _, ev := range events {
		switch ev.Kind {
		case game.EventStateChanged:
			s.send(game.MsgTypeState, game.StateMessage{
				State:         *ev.State,
				Outcome:       outcome,
				CanUndo:       ev.State.CanUndo(),
				AutoCompletes: game.IsAutoCompletable(ev.State),
			})
		case game.EventWon:
			s.send(game.MsgTypeWon, game.WonMessage{Moves: ev.State.MoveCount})
		case game.EventUnwinnable:
			s.send(game.MsgTypeUnwinnable, game.UnwinnableMessage{DrawMode: ev.DrawMode})
		}
	}
}

func (s *Session) startAutoCompleteLocked() {
	if s.stopAuto != nil {
		return // Already running.
	}
	if !s.engine.IsAutoCompletable() {
		s.sendError(game.ErrNotAutoCompletable)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopAuto = cancel
	klog.V(1).Infof("Session %s: auto-complete started", s.ID)
	go s.autoCompleteLoop(ctx)
}

func (s *Session) stopAutoCompleteLocked() {
	if s.stopAuto == nil {
		return
	}
	s.stopAuto()
	s.stopAuto = nil
	klog.V(1).Infof("Session %s: auto-complete stopped", s.ID)
}

// autoCompleteLoop plays one auto-complete step per tick, until the game is
// won or ctx is canceled.
func (s *Session) autoCompleteLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.AutoCompleteInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		outcome, done := s.engine.AutoCompleteStep()
		if outcome.Success {
			s.flushLocked(&outcome)
		} else if outcome.Err != nil {
			s.sendError(outcome.Err)
		}
		if done {
			s.stopAutoCompleteLocked()
		}
		s.mu.Unlock()
		if done {
			return
		}
	}
}

// scheduleStuckCheckLocked checks, after the configured delay, whether the
// game can still progress. The check is dropped if the game was replaced.
func (s *Session) scheduleStuckCheckLocked() {
	if s.stuckTimer != nil {
		s.stuckTimer.Stop()
	}
	state := s.engine.State()
	if state == nil {
		return
	}
	gameID := state.ID
	s.stuckTimer = time.AfterFunc(s.cfg.StuckCheckDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if current := s.engine.State(); current == nil || current.ID != gameID {
			return
		}
		s.engine.CheckIfStuck()
		s.flushLocked(nil)
	})
}

func (s *Session) sendError(err error) {
	s.send(game.MsgTypeError, game.ErrorMessage{Message: err.Error()})
}

func (s *Session) send(msgType game.MessageType, payload any) {
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("Session %s: failed to create %s message: %v", s.ID, msgType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		klog.V(1).Infof("Session %s: failed to send %s: %v", s.ID, msgType, err)
	}
}
