package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/janpfeifer/GoKlondike/internal/config"
	"github.com/janpfeifer/GoKlondike/internal/frontend"
	"github.com/janpfeifer/GoKlondike/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Run starts the server and blocks until the context is canceled.
//
// If started is not nil, the ServerState is sent to it once the server is
// listening, with Address set to the actual address (useful when cfg.Addr is
// empty and a free port is picked).
func Run(ctx context.Context, cfg config.Config, started chan<- *ServerState) error {
	// Initialize the client state so prerendering on the server doesn't panic.
	frontend.InitClient()

	serverState := NewServerState(cfg)

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &frontend.Board{} })

	// The web assets and the compiled webassembly
	// are served natively by the go-app framework
	h := &app.Handler{
		Name:        "Klondike",
		Description: "Klondike Solitaire",
		Version:     game.Version,
		Styles: []string{
			"/web/css/base.css", // Page, nav and buttons
			"/web/css/main.css", // Board layout and cards
		},
	}

	mux := http.NewServeMux()

	// Register WebSocket endpoint
	mux.HandleFunc("/ws", serverState.HandleWS)

	// We want to serve /web for static files
	mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir("web/"))))
	mux.Handle("/", h)

	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	serverState.Address = listener.Addr().String()

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		klog.Infof("Server started on %s", serverState.Address)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			klog.Errorf("Server error: %v", err)
		}
	}()
	if started != nil {
		started <- serverState
	}

	<-ctx.Done()

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Infof("Shutting down server...")
	serverState.CloseAll()
	return srv.Shutdown(shutdownCtx)
}
