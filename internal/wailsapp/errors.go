package wailsapp

import "errors"

var (
	// ErrNoEngine is returned when a binding is called before Run wired the engine.
	ErrNoEngine = errors.New("discovery engine not initialized")

	// ErrNoDisplay is returned on Linux when no display server is reachable.
	ErrNoDisplay = errors.New("GUI mode requires a display; DISPLAY and WAYLAND_DISPLAY are not set")
)
