package wailsapp

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sccompanion/sc-companion/internal/discovery"
	"github.com/sccompanion/sc-companion/internal/events"
)

type stubLocator struct {
	supported bool
	appData   string
}

func (s stubLocator) Supported() bool                  { return s.supported }
func (s stubLocator) LauncherPath() (string, error)    { return "", nil }
func (s stubLocator) InstallLocation() (string, error) { return "", nil }
func (s stubLocator) UserDataDir() (string, error)     { return s.appData, nil }

func newBindingsApp(loc discovery.InstallationLocator) *App {
	bus := events.NewEventBus(16)
	return NewApp(discovery.NewEngine(loc, discovery.Options{}), bus, nil)
}

func TestGreet(t *testing.T) {
	app := NewApp(nil, events.NewEventBus(1), nil)
	if got, want := app.Greet("Pilot"), "Hello, Pilot! You've been greeted from Go!"; got != want {
		t.Errorf("Greet() = %q, want %q", got, want)
	}
	if got, want := app.Greet(""), "Hello, ! You've been greeted from Go!"; got != want {
		t.Errorf("Greet(\"\") = %q, want %q", got, want)
	}
}

func TestFindStarCitizenLogsReturnsPaths(t *testing.T) {
	appData := t.TempDir()
	logPath := filepath.Join(appData, "Roberts Space Industries", "StarCitizen", "LIVE", "Game.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(logPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := newBindingsApp(stubLocator{supported: true, appData: appData}).FindStarCitizenLogs()
	if err != nil {
		t.Fatalf("FindStarCitizenLogs failed: %v", err)
	}
	if want := []string{logPath}; !reflect.DeepEqual(paths, want) {
		t.Errorf("FindStarCitizenLogs() = %v, want %v", paths, want)
	}
}

func TestFindStarCitizenLogsHumanReadableErrors(t *testing.T) {
	tests := []struct {
		name string
		loc  stubLocator
		want string
	}{
		{"unsupported", stubLocator{supported: false}, discovery.UserMessage(discovery.ErrUnsupportedPlatform)},
		{"not found", stubLocator{supported: true, appData: t.TempDir()}, discovery.UserMessage(discovery.ErrNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBindingsApp(tt.loc).FindStarCitizenLogs()
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestFindStarCitizenLogsWithoutEngine(t *testing.T) {
	app := NewApp(nil, events.NewEventBus(1), nil)
	if _, err := app.FindStarCitizenLogs(); !errors.Is(err, ErrNoEngine) {
		t.Errorf("error = %v, want ErrNoEngine", err)
	}
}
