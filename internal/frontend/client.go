package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/janpfeifer/GoKlondike/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// ClientState manages the connection and the last game state received.
type ClientState struct {
	Conn *websocket.Conn

	Game          *game.GameState
	CanUndo       bool
	AutoCompletes bool
	AutoRunning   bool
	Hint          *game.Move
	Status        string // "won", "unwinnable" or empty
	Error         string

	// DrawMode of the next new game.
	DrawMode int

	// Listeners for state updates
	Listeners map[string]func()
}

var Client *ClientState

func (s *ClientState) Notify() {
	klog.V(2).Infof("ClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

func InitClient() {
	if Client == nil {
		klog.V(1).Infof("InitClient: creating new state (was nil)")
		Client = &ClientState{
			DrawMode:  game.DefaultDrawMode,
			Listeners: make(map[string]func()),
		}
	} else {
		klog.V(1).Infof("InitClient: state already exists")
	}
}

// ConnectWS connects to the server and asks for a new game.
func (s *ClientState) ConnectWS() error {
	if s.Conn != nil {
		klog.Infof("ConnectWS: Closing existing connection")
		s.Conn.CloseNow()
	}

	wsURL := fmt.Sprintf("ws://%s/ws", app.Window().URL().Host)
	klog.Infof("ConnectWS: Connecting to %s", wsURL)

	// We use a context that lasts for the duration of the connection setup.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		klog.Errorf("ConnectWS: Dial failed: %v", err)
		return fmt.Errorf("dial failed: %w", err)
	}
	s.Conn = conn

	// Start reading loop in background
	go s.readLoop(conn)

	s.SendNewGame(s.DrawMode)
	return nil
}

func (s *ClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	klog.Infof("readLoop: started")
	for {
		var msg game.WsMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			break
		}

		klog.V(2).Infof("readLoop: received message type: %s", msg.Type)
		s.handleMessage(msg)
	}
}

func (s *ClientState) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}

	switch m := p.(type) {
	case *game.StateMessage:
		if s.Game == nil || s.Game.ID != m.State.ID {
			s.Status = ""
		} else if m.Outcome != nil && m.Outcome.Undone {
			s.Status = ""
		}
		s.Game = &m.State
		s.CanUndo = m.CanUndo
		s.AutoCompletes = m.AutoCompletes
		s.Hint = nil
		s.Error = ""

	case *game.WonMessage:
		klog.Infof("handleMessage: Won in %d moves", m.Moves)
		s.Status = "won"
		s.AutoRunning = false

	case *game.UnwinnableMessage:
		s.Status = "unwinnable"

	case *game.HintMessage:
		s.Hint = m.Move
		if !m.Found {
			s.Error = "No hint: try drawing from the stock"
		}

	case *game.ErrorMessage:
		s.Error = m.Message
		s.AutoRunning = false

	default:
		klog.Warningf("handleMessage: unexpected message type %s", msg.Type)
		return
	}
	s.Notify()
}

func (s *ClientState) send(msgType game.MessageType, payload any) {
	if s.Conn == nil {
		return
	}
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("send: Failed to create %s message: %v", msgType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	if err := wsjson.Write(ctx, s.Conn, msg); err != nil {
		klog.Errorf("send: Failed to send %s: %v", msgType, err)
	}
}

// SendNewGame asks for a new deal with the given draw mode.
func (s *ClientState) SendNewGame(drawMode int) {
	s.DrawMode = drawMode
	s.AutoRunning = false
	s.send(game.MsgTypeNewGame, game.NewGameMessage{DrawMode: drawMode})
}

func (s *ClientState) SendDraw() { s.send(game.MsgTypeDraw, nil) }

// SendMove moves card, and the cards above it, to the pile to.
func (s *ClientState) SendMove(card game.CardID, to game.PileRef) {
	s.send(game.MsgTypeMove, game.MoveMessage{Card: card, To: to})
}

func (s *ClientState) SendUndo() { s.send(game.MsgTypeUndo, nil) }

func (s *ClientState) SendHint() { s.send(game.MsgTypeHint, nil) }

// SendAutoComplete starts the auto-complete animation on the server.
func (s *ClientState) SendAutoComplete() {
	s.AutoRunning = true
	s.send(game.MsgTypeAutoComplete, nil)
}

// SendCancel stops a running auto-complete.
func (s *ClientState) SendCancel() {
	s.AutoRunning = false
	s.send(game.MsgTypeCancel, nil)
}
