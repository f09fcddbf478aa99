package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sccompanion/sc-companion/internal/discovery"
)

// newLocateCmd creates the 'locate' command.
func newLocateCmd() *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the Star Citizen log files the companion would use",
		Long: `Run installation discovery and print the result, one path per line.

Discovery order:
  1. install_root from companion.conf (or SC_COMPANION_INSTALL_ROOT)
  2. RSI Launcher App Paths registry entry
  3. RSI Launcher InstallLocation registry entry
  4. %APPDATA%\Roberts Space Industries\StarCitizen

When no Game.log exists but the folder from step 4 does, that folder is
printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			engine := discovery.NewEngine(discovery.NewLocator(), discovery.Options{
				InstallRoot:     cfg.Discovery.InstallRoot,
				AppDataOverride: cfg.Discovery.AppDataOverride,
				Logger:          GetLogger(),
			})

			decorated := showSources || isTerminal(cmd.OutOrStdout())
			return runLocate(engine, cmd.OutOrStdout(), decorated)
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "Show which strategy found each path")
	return cmd
}

type discoverer interface {
	Discover() ([]discovery.LogPath, error)
}

func runLocate(engine discoverer, out io.Writer, decorated bool) error {
	results, err := engine.Discover()
	if err != nil {
		return errors.New(discovery.UserMessage(err))
	}

	for _, r := range results {
		if decorated {
			fmt.Fprintf(out, "%-26s %s\n", "["+string(r.Source)+"]", r.Path)
		} else {
			fmt.Fprintln(out, r.Path)
		}
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal. Piped output
// stays one bare path per line.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
