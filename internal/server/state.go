package server

import (
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/janpfeifer/GoKlondike/internal/config"
	"k8s.io/klog/v2"
)

// ServerState holds the sessions of all connected clients.
type ServerState struct {
	mu       sync.Mutex
	Sessions map[string]*Session
	cfg      config.Config

	// Address the server is listening on, set by Run.
	Address string
}

// NewServerState creates an empty ServerState.
func NewServerState(cfg config.Config) *ServerState {
	return &ServerState{
		Sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// Session returns the session with the given id, or nil.
func (s *ServerState) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sessions[id]
}

// HandleWS upgrades the connection and runs one game session over it until
// the client disconnects.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow any origin for now
	})
	if err != nil {
		klog.Errorf("Failed to accept websocket: %v", err)
		return
	}
	defer conn.CloseNow()

	session := newSession(uuid.NewString(), conn, s.cfg)
	s.mu.Lock()
	s.Sessions[session.ID] = session
	klog.V(1).Infof("Session %s connected from %s, %d sessions", session.ID, r.RemoteAddr, len(s.Sessions))
	s.mu.Unlock()

	defer func() {
		session.Close()
		s.mu.Lock()
		delete(s.Sessions, session.ID)
		s.mu.Unlock()
		klog.V(1).Infof("Session %s disconnected", session.ID)
	}()

	session.readLoop(r.Context())
}

// CloseAll stops every session and closes their connections.
func (s *ServerState) CloseAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.Sessions))
	for _, session := range s.Sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()
	for _, session := range sessions {
		session.Close()
		session.conn.CloseNow()
	}
}
