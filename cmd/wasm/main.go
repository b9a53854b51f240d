package main

import (
	"flag"
	"os"

	"github.com/janpfeifer/GoKlondike/internal/frontend"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

func main() {
	// Initialize klog for WASM, forcing logs to stderr (console)
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.Set("logtostderr", "true")
	klog.SetOutput(os.Stderr)
	klog.Infof("WASM started!")

	// The board is the only page.
	app.Route("/", func() app.Composer { return &frontend.Board{} })

	// Initialize the client state before any component mounts.
	frontend.InitClient()

	// When building for WEB (GOOS=js GOARCH=wasm), app.RunWhenOnBrowser() executes the frontend logic
	app.RunWhenOnBrowser()
}
