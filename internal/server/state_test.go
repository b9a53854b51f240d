package server

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoKlondike/internal/config"
	"github.com/janpfeifer/GoKlondike/internal/game"
	"github.com/janpfeifer/GoKlondike/internal/game/gametest"
)

// testConfig never runs the stuck check unless a test asks for it.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.AutoCompleteInterval = time.Millisecond
	cfg.StuckCheckDelay = time.Hour
	return cfg
}

type testClient struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
}

// connect starts a server with cfg and opens a websocket to it.
func connect(t *testing.T, cfg config.Config) (*ServerState, *testClient) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	started := make(chan *ServerState, 1)
	go Run(ctx, cfg, started)
	serverState := <-started

	conn, _, err := websocket.Dial(ctx, "ws://"+serverState.Address+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return serverState, &testClient{t: t, ctx: ctx, conn: conn}
}

func (c *testClient) send(msgType game.MessageType, payload any) {
	c.t.Helper()
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("Failed to create %s message: %v", msgType, err)
	}
	if err := wsjson.Write(c.ctx, c.conn, msg); err != nil {
		c.t.Fatalf("Failed to send %s: %v", msgType, err)
	}
}

// read returns the payload of the next message, which must be of type msgType.
func (c *testClient) read(msgType game.MessageType) any {
	c.t.Helper()
	var msg game.WsMessage
	if err := wsjson.Read(c.ctx, c.conn, &msg); err != nil {
		c.t.Fatalf("Failed to read %s: %v", msgType, err)
	}
	p, err := msg.Parse()
	if err != nil {
		c.t.Fatalf("Failed to parse %s payload: %v", msg.Type, err)
	}
	if msg.Type != msgType {
		c.t.Fatalf("Expected %s message, got %s: %+v", msgType, msg.Type, p)
	}
	return p
}

func (c *testClient) readState() *game.StateMessage {
	c.t.Helper()
	return c.read(game.MsgTypeState).(*game.StateMessage)
}

// onlySession returns the single session of the server.
func onlySession(t *testing.T, serverState *ServerState) *Session {
	t.Helper()
	serverState.mu.Lock()
	defer serverState.mu.Unlock()
	if len(serverState.Sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(serverState.Sessions))
	}
	for _, session := range serverState.Sessions {
		return session
	}
	return nil
}

// loadState replaces the session's game and sends the new state to the client.
func loadState(t *testing.T, session *Session, state *game.GameState) {
	t.Helper()
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.engine.LoadState(state); err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}
	session.flushLocked(nil)
	session.scheduleStuckCheckLocked()
}

func TestGameWebsocket(t *testing.T) {
	_, client := connect(t, testConfig())

	// Moves before a game is dealt are rejected.
	client.send(game.MsgTypeDraw, nil)
	errMsg := client.read(game.MsgTypeError).(*game.ErrorMessage)
	if errMsg.Message != game.ErrNoGame.Error() {
		t.Errorf("Expected %q, got %q", game.ErrNoGame, errMsg.Message)
	}

	seed := int64(42)
	client.send(game.MsgTypeNewGame, game.NewGameMessage{DrawMode: 1, Seed: &seed})
	dealt := client.readState()
	if dealt.Outcome != nil || dealt.CanUndo {
		t.Errorf("Fresh deal should have no outcome and nothing to undo: %+v", dealt)
	}

	// Same seed deals the same game locally.
	want, err := game.NewEngine().NewGame(1, rand.New(rand.NewPCG(uint64(seed), 0)))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	for col := range game.NumColumns {
		if len(dealt.State.Tableau[col]) != game.NumColumns-col {
			t.Fatalf("Column %d has %d cards", col, len(dealt.State.Tableau[col]))
		}
		for i, c := range dealt.State.Tableau[col] {
			if c != want.Tableau[col][i] {
				t.Errorf("Column %d card %d: got %v, wanted %v", col, i, c, want.Tableau[col][i])
			}
		}
	}
	if len(dealt.State.Stock) != 24 {
		t.Fatalf("Expected 24 cards in the stock, got %d", len(dealt.State.Stock))
	}

	// Draw, then undo it.
	client.send(game.MsgTypeDraw, nil)
	drawn := client.readState()
	if drawn.Outcome == nil || !drawn.Outcome.Success {
		t.Fatalf("Draw failed: %+v", drawn.Outcome)
	}
	if len(drawn.State.Waste) != 1 || drawn.State.MoveCount != 1 || !drawn.CanUndo {
		t.Errorf("Unexpected state after draw: waste=%v moves=%d canUndo=%v",
			drawn.State.Waste, drawn.State.MoveCount, drawn.CanUndo)
	}
	client.send(game.MsgTypeUndo, nil)
	undone := client.readState()
	if !undone.Outcome.Undone || len(undone.State.Waste) != 0 || undone.State.MoveCount != 0 {
		t.Errorf("Unexpected state after undo: %+v", undone)
	}

	// Stock cards can't be moved.
	client.send(game.MsgTypeMove, game.MoveMessage{Card: undone.State.Stock[0].ID(), To: game.TableauPile(0)})
	client.read(game.MsgTypeError)

	// Hints match the local engine.
	client.send(game.MsgTypeHint, nil)
	hint := client.read(game.MsgTypeHint).(*game.HintMessage)
	wantMove, found := game.Hint(want)
	if hint.Found != found {
		t.Fatalf("Hint found=%v, wanted %v", hint.Found, found)
	}
	if found && *hint.Move != wantMove {
		t.Errorf("Hint %+v, wanted %+v", *hint.Move, wantMove)
	}
	if found {
		client.send(game.MsgTypeMove, game.MoveMessage{Card: hint.Move.Card, To: hint.Move.To})
		moved := client.readState()
		if !moved.Outcome.Success || moved.Outcome.Record == nil {
			t.Errorf("Hinted move failed: %+v", moved.Outcome)
		}
	}

	// Invalid draw mode.
	client.send(game.MsgTypeNewGame, game.NewGameMessage{DrawMode: 2})
	client.read(game.MsgTypeError)

	// Default draw mode comes from the configuration.
	client.send(game.MsgTypeNewGame, game.NewGameMessage{})
	if st := client.readState(); st.State.DrawMode != 1 || st.State.MoveCount != 0 {
		t.Errorf("Unexpected new game: draw mode %d, %d moves", st.State.DrawMode, st.State.MoveCount)
	}
}

func TestAutoCompleteWebsocket(t *testing.T) {
	serverState, client := connect(t, testConfig())
	client.send(game.MsgTypeNewGame, game.NewGameMessage{DrawMode: 3})
	client.readState()

	// A fresh deal has face-down cards.
	client.send(game.MsgTypeAutoComplete, nil)
	client.read(game.MsgTypeError)

	loadState(t, onlySession(t, serverState), gametest.AutoCompletable())
	if st := client.readState(); !st.AutoCompletes {
		t.Fatalf("Expected loaded state to be auto-completable")
	}

	client.send(game.MsgTypeAutoComplete, nil)
	steps := 0
	var last *game.StateMessage
	for {
		var msg game.WsMessage
		if err := wsjson.Read(client.ctx, client.conn, &msg); err != nil {
			t.Fatalf("Failed to read: %v", err)
		}
		if msg.Type == game.MsgTypeWon {
			break
		}
		if msg.Type != game.MsgTypeState {
			t.Fatalf("Unexpected %s message during auto-complete", msg.Type)
		}
		p, err := msg.Parse()
		if err != nil {
			t.Fatalf("Failed to parse state: %v", err)
		}
		last = p.(*game.StateMessage)
		steps++
	}
	if steps != game.DeckSize {
		t.Errorf("Expected %d auto-complete steps, got %d", game.DeckSize, steps)
	}
	if last == nil || !game.IsWon(&last.State) {
		t.Errorf("Expected the last state to be won")
	}
}

func TestCancelAutoComplete(t *testing.T) {
	cfg := testConfig()
	cfg.AutoCompleteInterval = time.Hour
	serverState, client := connect(t, cfg)
	client.send(game.MsgTypeNewGame, game.NewGameMessage{})
	client.readState()
	session := onlySession(t, serverState)
	loadState(t, session, gametest.AutoCompletable())
	client.readState()

	running := func() bool {
		// A hint round-trip makes sure the previous messages were handled.
		client.send(game.MsgTypeHint, nil)
		client.read(game.MsgTypeHint)
		session.mu.Lock()
		defer session.mu.Unlock()
		return session.stopAuto != nil
	}

	client.send(game.MsgTypeAutoComplete, nil)
	if !running() {
		t.Fatalf("Auto-complete should be running")
	}
	client.send(game.MsgTypeCancel, nil)
	if running() {
		t.Fatalf("Auto-complete should be stopped by cancel")
	}

	client.send(game.MsgTypeAutoComplete, nil)
	if !running() {
		t.Fatalf("Auto-complete should be running again")
	}
	client.send(game.MsgTypeNewGame, game.NewGameMessage{})
	client.readState()
	if running() {
		t.Fatalf("Auto-complete should be stopped by a new game")
	}
}

func TestUnwinnableWebsocket(t *testing.T) {
	cfg := testConfig()
	cfg.StuckCheckDelay = 10 * time.Millisecond
	serverState, client := connect(t, cfg)
	client.send(game.MsgTypeNewGame, game.NewGameMessage{DrawMode: 3})
	client.readState()

	loadState(t, onlySession(t, serverState), gametest.Blocked())
	client.readState()
	unwinnable := client.read(game.MsgTypeUnwinnable).(*game.UnwinnableMessage)
	if unwinnable.DrawMode != 1 {
		t.Errorf("Expected draw mode 1, got %d", unwinnable.DrawMode)
	}

	client.send(game.MsgTypeHint, nil)
	if hint := client.read(game.MsgTypeHint).(*game.HintMessage); hint.Found {
		t.Errorf("Expected no hint in a blocked game, got %+v", hint.Move)
	}
}

func TestStuckCheckDroppedForReplacedGame(t *testing.T) {
	cfg := testConfig()
	cfg.StuckCheckDelay = 10 * time.Millisecond
	serverState, client := connect(t, cfg)
	client.send(game.MsgTypeNewGame, game.NewGameMessage{})
	client.readState()
	session := onlySession(t, serverState)

	// Let the check for the first blocked game fire while the session is busy,
	// and replace the game before the check gets to run.
	session.mu.Lock()
	if err := session.engine.LoadState(gametest.Blocked()); err != nil {
		session.mu.Unlock()
		t.Fatalf("Failed to load state: %v", err)
	}
	session.flushLocked(nil)
	session.scheduleStuckCheckLocked()
	time.Sleep(5 * cfg.StuckCheckDelay)
	// The replacement is blocked too, so only the game ID tells them apart.
	replacement := gametest.Blocked()
	replacement.ID = "replacement"
	if err := session.engine.LoadState(replacement); err != nil {
		session.mu.Unlock()
		t.Fatalf("Failed to load replacement: %v", err)
	}
	session.flushLocked(nil)
	session.mu.Unlock()

	blocked := client.readState()
	replaced := client.readState()
	if blocked.State.ID == replaced.State.ID {
		t.Fatalf("Expected a new game, got the same ID %s", replaced.State.ID)
	}

	// Any unwinnable message would come before the second hint.
	for range 2 {
		time.Sleep(5 * cfg.StuckCheckDelay)
		client.send(game.MsgTypeHint, nil)
		client.read(game.MsgTypeHint)
	}
}

func TestDisconnectStopsAutoComplete(t *testing.T) {
	cfg := testConfig()
	cfg.AutoCompleteInterval = time.Hour
	serverState, client := connect(t, cfg)
	client.send(game.MsgTypeNewGame, game.NewGameMessage{})
	client.readState()
	session := onlySession(t, serverState)
	loadState(t, session, gametest.AutoCompletable())
	client.readState()

	client.send(game.MsgTypeAutoComplete, nil)
	client.send(game.MsgTypeHint, nil)
	client.read(game.MsgTypeHint)
	session.mu.Lock()
	running := session.stopAuto != nil
	session.mu.Unlock()
	if !running {
		t.Fatalf("Auto-complete should be running")
	}

	if err := client.conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		t.Fatalf("Failed to close connection: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for serverState.Session(session.ID) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("Session %s still registered after disconnect", session.ID)
		}
		time.Sleep(10 * time.Millisecond)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.stopAuto != nil || !session.closed {
		t.Errorf("Auto-complete should be stopped after disconnect: stopAuto set=%v, closed=%v",
			session.stopAuto != nil, session.closed)
	}
}
