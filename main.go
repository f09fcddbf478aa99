// SC Companion - desktop companion for Star Citizen.
//
// - Default → GUI mode (single instance); every argument is forwarded as-is
// - --cli as the first argument → CLI mode, remaining args go to the CLI
//
// Build with: wails build
package main

import (
	"embed"
	"fmt"
	"os"
	"runtime"

	"github.com/sccompanion/sc-companion/internal/cli"
	"github.com/sccompanion/sc-companion/internal/wailsapp"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if isCLIMode(os.Args[1:]) {
		if err := cli.Execute(os.Args[2:]); err != nil {
			os.Exit(1)
		}
		return
	}

	// Wails uses its own webview input handling; ibus is unnecessary.
	if runtime.GOOS == "linux" && os.Getenv("GTK_IM_MODULE") == "" {
		os.Setenv("GTK_IM_MODULE", "none")
	}
	wailsapp.Assets = assets
	if err := wailsapp.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliFlag selects CLI mode. It must be the first argument.
const cliFlag = "--cli"

// isCLIMode reports whether args request CLI mode.
//
// Any other launch, including a bare "version" or "-x", belongs to the
// singleton: the OS may hand the companion arbitrary arguments and they must
// all reach the primary instance.
func isCLIMode(args []string) bool {
	return len(args) > 0 && args[0] == cliFlag
}
