package game

import (
	"encoding/json"
	"fmt"
)

// Message type for WebSocket communication between a renderer and the server.
type MessageType string

const (
	MsgTypeNewGame      MessageType = "new_game"      // Client wants a new deal
	MsgTypeDraw         MessageType = "draw"          // Client draws from the stock
	MsgTypeMove         MessageType = "move"          // Client moves a card (and the cards above it)
	MsgTypeUndo         MessageType = "undo"          // Client undoes the last move
	MsgTypeAutoComplete MessageType = "auto_complete" // Client starts the auto-complete loop
	MsgTypeCancel       MessageType = "cancel"        // Client stops the auto-complete loop
	MsgTypeHint         MessageType = "hint"          // Client asks for a hint; server answers with a hint
	MsgTypeState        MessageType = "state"         // Server sends the full game state
	MsgTypeWon          MessageType = "won"           // Server announces the game is won
	MsgTypeUnwinnable   MessageType = "unwinnable"    // Server announces the game can't progress
	MsgTypeError        MessageType = "error"         // Server sends an error message
)

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types (NewGameMessage, MoveMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeNewGame:
		target = &NewGameMessage{}
	case MsgTypeDraw:
		target = &DrawMessage{}
	case MsgTypeMove:
		target = &MoveMessage{}
	case MsgTypeUndo:
		target = &UndoMessage{}
	case MsgTypeAutoComplete:
		target = &AutoCompleteMessage{}
	case MsgTypeCancel:
		target = &CancelMessage{}
	case MsgTypeHint:
		target = &HintMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeWon:
		target = &WonMessage{}
	case MsgTypeUnwinnable:
		target = &UnwinnableMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// NewGameMessage is the payload for MsgTypeNewGame
type NewGameMessage struct {
	DrawMode int    `json:"draw_mode,omitempty"` // 1 or 3; 0 uses the server default
	Seed     *int64 `json:"seed,omitempty"`      // Fixed seed for a reproducible deal
}

// DrawMessage: empty.
type DrawMessage struct{}

// MoveMessage is the payload for MsgTypeMove
type MoveMessage struct {
	Card CardID  `json:"card"` // Bottom card of what is being moved
	To   PileRef `json:"to"`   // Tableau column or foundation
}

// UndoMessage: empty.
type UndoMessage struct{}

// AutoCompleteMessage: empty.
type AutoCompleteMessage struct{}

// CancelMessage: empty.
type CancelMessage struct{}

// HintMessage is the payload for MsgTypeHint. Clients send it empty.
type HintMessage struct {
	Move  *Move `json:"move,omitempty"`
	Found bool  `json:"found"`
}

// StateMessage is the payload for MsgTypeState
type StateMessage struct {
	State         GameState    `json:"state"`
	Outcome       *MoveOutcome `json:"outcome,omitempty"` // Intent that produced this state, if any
	CanUndo       bool         `json:"can_undo"`
	AutoCompletes bool         `json:"auto_completes"` // Auto-complete is available
}

// WonMessage is the payload for MsgTypeWon
type WonMessage struct {
	Moves int `json:"moves"`
}

// UnwinnableMessage is the payload for MsgTypeUnwinnable
type UnwinnableMessage struct {
	DrawMode int `json:"draw_mode"`
}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}
