package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/janpfeifer/GoKlondike/internal/config"
	"github.com/janpfeifer/GoKlondike/internal/server"
	"k8s.io/klog/v2"
)

var (
	flagAddr   = flag.String("addr", "", "Address to listen on, overrides the config file (default: auto-port on localhost)")
	flagConfig = flag.String("config", "", "YAML configuration file")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		klog.Exitf("Failed to load configuration: %v", err)
	}
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}

	started := make(chan *server.ServerState, 1)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		state := <-started
		fmt.Printf("Klondike server listening on http://%s\n", state.Address)
	}()

	if err := server.Run(ctx, cfg, started); err != nil {
		klog.Exitf("Server failed: %v", err)
	}
}
