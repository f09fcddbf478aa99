// Package wailsapp hosts the companion's Wails window and binds the native
// operations exposed to the frontend.
package wailsapp

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/sccompanion/sc-companion/internal/config"
	"github.com/sccompanion/sc-companion/internal/discovery"
	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/ipc"
	"github.com/sccompanion/sc-companion/internal/logging"
	"github.com/sccompanion/sc-companion/internal/singleinstance"
	"github.com/sccompanion/sc-companion/internal/version"
)

// Assets holds the embedded frontend files, passed in from main package.
var Assets embed.FS

// App is the main Wails application struct.
// All public methods are exposed to the frontend as callable functions.
type App struct {
	ctx    context.Context
	engine *discovery.Engine
	bus    *events.EventBus
	logger *logging.Logger

	// Event bridge for forwarding EventBus events to frontend
	eventBridge *EventBridge

	// launch is this process's own activation, replayed after startup so a
	// cold start via deep link behaves like a forwarded one.
	launch     ipc.Activation
	launchOnce sync.Once
}

// NewApp creates a new Wails application instance.
func NewApp(engine *discovery.Engine, bus *events.EventBus, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		engine:      engine,
		bus:         bus,
		logger:      logger,
		eventBridge: NewEventBridge(bus, logger),
	}
}

// startup is called when the app starts. The context is saved
// so we can call the Wails runtime methods.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.logger.Info().Str("version", version.Version).Msg("Wails application started")
}

// domReady is called after the frontend DOM is ready. Frontend listeners exist
// from here on, so event forwarding starts now: activations buffered since
// the guard was acquired are delivered first, then the launch payload.
func (a *App) domReady(ctx context.Context) {
	if err := a.eventBridge.Start(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to start event bridge")
	}

	a.launchOnce.Do(func() {
		if payload, ok := singleinstance.DeepLinkPayload(a.launch); ok {
			a.logger.Info().Str("payload", payload).Msg("Launched with deep link")
			a.bus.PublishDeepLink(payload)
		}
	})
}

// shutdown is called at application termination.
func (a *App) shutdown(ctx context.Context) {
	a.logger.Info().Msg("Wails application shutting down")
	a.eventBridge.Stop()
}

// Run launches the companion for this process's argv.
//
// A secondary launch forwards its activation to the running instance and
// returns nil without opening a window. Failure to create the singleton guard
// is returned and must be treated as fatal by the caller.
func Run() error {
	envPath := config.LoadDotenv()
	cfg, cfgErr := config.Load("")
	if cfgErr != nil {
		cfg = config.NewConfig()
		cfg.ApplyEnv()
	}

	logging.SetDebug(cfg.App.Debug)
	logger := logging.NewLogger("wails")
	if envPath != "" {
		logger.Debug().Str("path", envPath).Msg("Loaded .env overrides")
	}
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("Failed to load companion.conf, using defaults")
	}

	bus := events.NewEventBus(events.DefaultBufferSize)
	defer bus.Close()

	launch := singleinstance.CurrentActivation()

	// The bridge must be subscribed before the activation listener can publish.
	app := NewApp(nil, bus, logger)
	app.launch = launch

	var logDir string
	if cfg.App.FileLogging {
		logDir = config.LogDirectory()
	}
	siLogger := logging.NewLogger("singleinstance")
	guard, err := acquirePrimary(primaryOptions{
		Singleton:  singleinstanceOptions(cfg, siLogger),
		Handler:    singleinstance.DeepLinkHandler(bus, siLogger),
		LogDir:     logDir,
		HasDisplay: hasDisplay,
		Logger:     logger,
	}, launch)
	if errors.Is(err, singleinstance.ErrNotPrimary) {
		app.eventBridge.Stop()
		return nil
	}
	if err != nil {
		return err
	}
	defer guard.Release()
	defer logging.CloseFileLogging()

	app.engine = discovery.NewEngine(discovery.NewLocator(), discovery.Options{
		InstallRoot:     cfg.Discovery.InstallRoot,
		AppDataOverride: cfg.Discovery.AppDataOverride,
		Logger:          logging.NewLogger("discovery"),
		Bus:             bus,
	})

	err = wails.Run(&options.App{
		Title:     version.AppName,
		Width:     1100,
		Height:    700,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: Assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 23, B: 42, A: 1}, // slate-900
		OnStartup:        app.startup,
		OnDomReady:       app.domReady,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   version.AppName,
				Message: fmt.Sprintf("Version %s", version.Version),
			},
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			WebviewBrowserPath:   getWebView2BrowserPath(),
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
		},
	})
	if err != nil {
		return fmt.Errorf("wails application error: %w", err)
	}
	return nil
}

// primaryOptions configures acquirePrimary.
type primaryOptions struct {
	Singleton  singleinstance.Options
	Handler    ipc.ActivationHandler
	LogDir     string // empty disables the file sink
	HasDisplay func() bool
	Logger     *logging.Logger
}

// acquirePrimary runs the singleton hook and prepares the primary process.
// Secondaries return ErrNotPrimary before touching the display or the log
// file, so a headless relaunch still forwards and two processes never rotate
// the same log.
func acquirePrimary(opts primaryOptions, launch ipc.Activation) (*singleinstance.Guard, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	guard, err := singleinstance.Run(opts.Singleton, launch, opts.Handler)
	if errors.Is(err, singleinstance.ErrNotPrimary) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire single-instance guard: %w", err)
	}

	if opts.HasDisplay != nil && !opts.HasDisplay() {
		guard.Release()
		return nil, ErrNoDisplay
	}

	if opts.LogDir != "" {
		if path, err := logging.EnableFileLogging(opts.LogDir); err != nil {
			opts.Logger.Warn().Err(err).Msg("File logging unavailable")
		} else {
			opts.Logger.Debug().Str("path", path).Msg("File logging enabled")
		}
	}
	return guard, nil
}

func hasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func singleinstanceOptions(cfg *config.Config, logger *logging.Logger) singleinstance.Options {
	runtimeDir, err := config.ConfigDirectory()
	if err != nil {
		runtimeDir = os.TempDir()
	}
	return singleinstance.Options{
		InstanceID: cfg.App.InstanceID,
		RuntimeDir: runtimeDir,
		Logger:     logger,
	}
}

// getWebView2BrowserPath returns the path to a bundled WebView2 Fixed Version
// Runtime next to the executable, or "" to use the system-installed one.
func getWebView2BrowserPath() string {
	if runtime.GOOS != "windows" {
		return ""
	}

	exePath, err := os.Executable()
	if err != nil {
		return ""
	}

	webview2Dir := filepath.Join(filepath.Dir(exePath), "webview2")
	if _, err := os.Stat(filepath.Join(webview2Dir, "msedgewebview2.exe")); err == nil {
		return webview2Dir
	}
	return ""
}
