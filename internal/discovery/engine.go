// Package discovery locates Star Citizen client logs on the local machine.
//
// Discovery runs a fixed chain of strategies and stops at the first one that
// produces any Game.log:
//
//  0. configured install root (companion.conf / SC_COMPANION_INSTALL_ROOT)
//  1. App Paths registry entry of the RSI Launcher
//  2. publisher InstallLocation registry entry
//  3. %APPDATA%\Roberts Space Industries\StarCitizen
//  4. the step 3 directory itself when it exists without any tier log
//
// Registry failures are logged and skipped. Only Windows is supported.
package discovery

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/logging"
)

// Strategy identifies which step of the chain produced a LogPath.
type Strategy string

const (
	StrategyConfigured      Strategy = "configured"
	StrategyAppPaths        Strategy = "registry/app-paths"
	StrategyInstallLocation Strategy = "registry/install-location"
	StrategyUserData        Strategy = "default/user-data"
	StrategyDirectory       Strategy = "fallback/directory"
)

// LogPath is one discovery result.
type LogPath struct {
	Path   string
	Source Strategy
}

// Paths drops the Source of each result, keeping order.
func Paths(results []LogPath) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Path)
	}
	return out
}

// Options configures an Engine.
type Options struct {
	// InstallRoot is tried before any registry lookup when set.
	InstallRoot string

	// AppDataOverride replaces the locator's UserDataDir.
	AppDataOverride string

	Logger *logging.Logger

	// Bus receives a DiscoveryEvent after every run. Optional.
	Bus *events.EventBus
}

// Engine runs the discovery chain. It holds no state between runs and is safe
// for concurrent use.
type Engine struct {
	locator InstallationLocator
	opts    Options
	logger  *logging.Logger
	stat    func(string) (os.FileInfo, error)
}

// NewEngine creates an Engine for locator.
func NewEngine(locator InstallationLocator, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{
		locator: locator,
		opts:    opts,
		logger:  logger,
		stat:    os.Stat,
	}
}

type strategy struct {
	name Strategy
	run  func() ([]string, error)
}

// Discover returns the Game.log paths of the first strategy that finds any,
// or the default user-data directory alone when it exists without logs.
func (e *Engine) Discover() ([]LogPath, error) {
	results, err := e.discover()

	if e.opts.Bus != nil {
		var source string
		if len(results) > 0 {
			source = string(results[0].Source)
		}
		e.opts.Bus.PublishDiscovery(source, Paths(results), err)
	}
	return results, err
}

func (e *Engine) discover() ([]LogPath, error) {
	if !e.locator.Supported() {
		return nil, ErrUnsupportedPlatform
	}

	strategies := []strategy{
		{StrategyConfigured, e.fromConfiguredRoot},
		{StrategyAppPaths, e.fromLauncherPath},
		{StrategyInstallLocation, e.fromInstallLocation},
		{StrategyUserData, e.fromUserData},
	}

	for _, s := range strategies {
		paths, err := s.run()
		if err != nil {
			e.logStrategyError(s.name, err)
			continue
		}
		if len(paths) == 0 {
			e.logger.Debug().Str("strategy", string(s.name)).Msg("Strategy found no logs")
			continue
		}

		e.logger.Info().
			Str("strategy", string(s.name)).
			Strs("paths", paths).
			Msg("Found Star Citizen logs")
		return tag(paths, s.name), nil
	}

	if dir, ok := e.userDataGameDir(); ok && e.isDir(dir) {
		e.logger.Info().Str("dir", dir).Msg("No Game.log found; returning installation directory")
		return []LogPath{{Path: dir, Source: StrategyDirectory}}, nil
	}

	e.logger.Info().Msg("Star Citizen installation not found")
	return nil, ErrNotFound
}

func (e *Engine) logStrategyError(name Strategy, err error) {
	event := e.logger.Warn().Err(err).Str("strategy", string(name))
	var regErr *RegistryReadError
	if errors.As(err, &regErr) {
		event = event.Str("key", regErr.Key).Bool("permission_denied", regErr.PermissionDenied())
	}
	event.Msg("Discovery strategy failed; trying next")
}

func (e *Engine) fromConfiguredRoot() ([]string, error) {
	root := e.opts.InstallRoot
	if root == "" {
		return nil, nil
	}
	if paths := e.tierLogs(root); len(paths) > 0 {
		return paths, nil
	}
	return e.tierLogs(filepath.Join(root, gameDirName)), nil
}

// fromLauncherPath checks both the launcher directory and its parent, since
// the launcher is commonly installed as a sibling of the StarCitizen folder.
func (e *Engine) fromLauncherPath() ([]string, error) {
	dir, err := e.locator.LauncherPath()
	if err != nil || dir == "" {
		return nil, err
	}

	var paths []string
	for _, candidate := range uniqueDirs(dir, filepath.Dir(dir)) {
		paths = append(paths, e.tierLogs(filepath.Join(candidate, gameDirName))...)
	}
	return paths, nil
}

func (e *Engine) fromInstallLocation() ([]string, error) {
	dir, err := e.locator.InstallLocation()
	if err != nil || dir == "" {
		return nil, err
	}
	return e.tierLogs(filepath.Join(dir, gameDirName)), nil
}

func (e *Engine) fromUserData() ([]string, error) {
	dir, ok := e.userDataGameDir()
	if !ok {
		return nil, nil
	}
	return e.tierLogs(dir), nil
}

// userDataGameDir returns <APPDATA>/Roberts Space Industries/StarCitizen.
func (e *Engine) userDataGameDir() (string, bool) {
	appData := e.opts.AppDataOverride
	if appData == "" {
		var err error
		appData, err = e.locator.UserDataDir()
		if err != nil || appData == "" {
			return "", false
		}
	}
	return filepath.Join(appData, publisherDirName, gameDirName), true
}

// tierLogs returns <gameDir>/<tier>/Game.log for every tier where it exists.
func (e *Engine) tierLogs(gameDir string) []string {
	var paths []string
	for _, tier := range Tiers {
		candidate := filepath.Join(gameDir, string(tier), LogFileName)
		if info, err := e.stat(candidate); err == nil && info.Mode().IsRegular() {
			paths = append(paths, candidate)
		}
	}
	return paths
}

func (e *Engine) isDir(path string) bool {
	info, err := e.stat(path)
	return err == nil && info.IsDir()
}

func uniqueDirs(dirs ...string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func tag(paths []string, source Strategy) []LogPath {
	out := make([]LogPath, len(paths))
	for i, p := range paths {
		out[i] = LogPath{Path: p, Source: source}
	}
	return out
}
