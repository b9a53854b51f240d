package game

// Version of the game.
// Bumping this number will eventually make clients reload the WASM.
//
// If you set this to an empty string, a random version number will be
// used, and force the reload of the WASM on every restart.
var Version = "v0.1.0"

// DefaultDrawMode is the number of cards turned over per draw when a client
// doesn't ask for a specific draw mode.
var DefaultDrawMode = 1
