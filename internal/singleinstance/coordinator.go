// Package singleinstance keeps one primary companion process per user session
// and forwards later launches' arguments to it.
package singleinstance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sccompanion/sc-companion/internal/ipc"
	"github.com/sccompanion/sc-companion/internal/logging"
)

// Options configures the coordinator.
type Options struct {
	// InstanceID names the guard and the activation endpoint.
	InstanceID string

	// RuntimeDir holds the lock file and socket on Unix. Unused on Windows.
	RuntimeDir string

	// ForwardTimeout bounds how long a secondary tries to reach the primary.
	ForwardTimeout time.Duration

	Logger *logging.Logger
}

const (
	defaultForwardTimeout = 3 * time.Second
	forwardRetryInterval  = 100 * time.Millisecond
)

func (o *Options) withDefaults() Options {
	out := *o
	if out.ForwardTimeout <= 0 {
		out.ForwardTimeout = defaultForwardTimeout
	}
	if out.RuntimeDir == "" {
		out.RuntimeDir = os.TempDir()
	}
	if out.Logger == nil {
		out.Logger = logging.Nop()
	}
	return out
}

// EndpointPath returns the activation endpoint for these options.
func (o Options) EndpointPath() string {
	return ipc.EndpointPath(o.RuntimeDir, o.InstanceID)
}

// Guard is held by the primary instance for its whole lifetime.
type Guard struct {
	opts    Options
	release func() error

	mu     sync.Mutex
	server *ipc.Server
}

// Acquire tries to become the primary instance.
//
// Returns ErrNotPrimary if another process holds the guard, or an error
// matching ErrGuardAcquisitionFailed if the OS primitive could not be used.
func Acquire(opts Options) (*Guard, error) {
	opts = opts.withDefaults()
	if opts.InstanceID == "" {
		return nil, &GuardError{Op: "lock", Err: errors.New("empty instance id")}
	}

	release, err := acquireLock(opts.RuntimeDir, opts.InstanceID)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug().Str("instance_id", opts.InstanceID).Msg("Single-instance guard acquired")
	return &Guard{opts: opts, release: release}, nil
}

// Listen starts the long-lived activation listener. handler is called once per
// activation forwarded by a secondary and may run concurrently.
func (g *Guard) Listen(handler ipc.ActivationHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.server != nil {
		return nil
	}

	server := ipc.NewServer(g.opts.EndpointPath(), handler, g.opts.Logger)
	if err := server.Start(); err != nil {
		return &GuardError{Op: "listen", Err: err}
	}
	g.server = server
	return nil
}

// Release stops the listener and gives up the guard.
func (g *Guard) Release() error {
	g.mu.Lock()
	server := g.server
	g.server = nil
	release := g.release
	g.release = nil
	g.mu.Unlock()

	if server != nil {
		server.Stop()
	}
	if release != nil {
		return release()
	}
	return nil
}

// Forward delivers act to the primary instance. Delivery is best effort: the
// primary may hold the guard without having started its listener yet, so
// "not listening" errors are retried until ForwardTimeout.
func Forward(ctx context.Context, opts Options, act ipc.Activation) error {
	opts = opts.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, opts.ForwardTimeout)
	defer cancel()

	client := ipc.NewClient(opts.EndpointPath())
	client.SetTimeout(opts.ForwardTimeout)

	for attempt := 1; ; attempt++ {
		err := client.Activate(ctx, act)
		if err == nil {
			opts.Logger.Debug().Int("attempt", attempt).Msg("Activation forwarded to primary instance")
			return nil
		}
		if !ipc.IsNotListening(err) {
			return fmt.Errorf("forward activation: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("forward activation: primary not reachable after %d attempts: %w", attempt, err)
		case <-time.After(forwardRetryInterval):
		}
	}
}

// Run is the startup hook. As primary it returns a Guard with the listener
// running. As secondary it forwards act, logs any delivery failure, and
// returns ErrNotPrimary so the caller exits without creating a window.
func Run(opts Options, act ipc.Activation, handler ipc.ActivationHandler) (*Guard, error) {
	opts = opts.withDefaults()

	guard, err := Acquire(opts)
	if errors.Is(err, ErrNotPrimary) {
		opts.Logger.Info().Int("argc", len(act.Args)).Msg("Another instance is running; forwarding activation")
		if ferr := Forward(context.Background(), opts, act); ferr != nil {
			opts.Logger.Warn().Err(ferr).Msg("Primary instance did not accept the activation")
		}
		return nil, ErrNotPrimary
	}
	if err != nil {
		return nil, err
	}

	if err := guard.Listen(handler); err != nil {
		guard.Release()
		return nil, err
	}
	return guard, nil
}

// CurrentActivation captures this process's argv and working directory.
func CurrentActivation() ipc.Activation {
	wd, _ := os.Getwd()
	return ipc.Activation{
		Args:             append([]string(nil), os.Args...),
		WorkingDirectory: wd,
	}
}
