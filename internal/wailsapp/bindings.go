package wailsapp

import (
	"errors"
	"fmt"

	"github.com/sccompanion/sc-companion/internal/discovery"
)

// Greet returns a greeting for name.
func (a *App) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// FindStarCitizenLogs runs installation discovery and returns the found
// Game.log paths, or the installation directory when no log exists yet.
// The rejection value seen by the frontend is a single human-readable string.
func (a *App) FindStarCitizenLogs() ([]string, error) {
	if a.engine == nil {
		return nil, ErrNoEngine
	}

	results, err := a.engine.Discover()
	if err != nil {
		a.logger.Info().Err(err).Msg("Star Citizen log discovery failed")
		return nil, errors.New(userMessage(err))
	}

	for _, r := range results {
		a.logger.Debug().Str("path", r.Path).Str("source", string(r.Source)).Msg("Discovered log path")
	}
	return discovery.Paths(results), nil
}

func userMessage(err error) string {
	return discovery.UserMessage(err)
}
