//go:build !windows

package wailsapp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sccompanion/sc-companion/internal/ipc"
	"github.com/sccompanion/sc-companion/internal/logging"
	"github.com/sccompanion/sc-companion/internal/singleinstance"
)

func testSingleton(t *testing.T) singleinstance.Options {
	t.Helper()
	// Short path: unix socket names are length limited.
	dir, err := os.MkdirTemp("", "scw")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return singleinstance.Options{
		InstanceID:     "wails-test",
		RuntimeDir:     dir,
		ForwardTimeout: time.Second,
		Logger:         logging.Nop(),
	}
}

func TestSecondarySkipsDisplayAndFileLogging(t *testing.T) {
	defer logging.CloseFileLogging()
	si := testSingleton(t)

	var mu sync.Mutex
	var received []ipc.Activation
	primaryLogs := filepath.Join(t.TempDir(), "primary-logs")
	guard, err := acquirePrimary(primaryOptions{
		Singleton: si,
		Handler: func(act ipc.Activation) {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, act)
		},
		LogDir:     primaryLogs,
		HasDisplay: func() bool { return true },
	}, ipc.Activation{Args: []string{"app"}})
	if err != nil {
		t.Fatalf("primary acquirePrimary failed: %v", err)
	}
	defer guard.Release()

	if _, err := os.Stat(primaryLogs); err != nil {
		t.Errorf("primary log directory not created: %v", err)
	}

	secondaryLogs := filepath.Join(t.TempDir(), "secondary-logs")
	_, err = acquirePrimary(primaryOptions{
		Singleton:  si,
		LogDir:     secondaryLogs,
		HasDisplay: func() bool { return false },
	}, ipc.Activation{Args: []string{"app", "sccompanion://headless"}})
	if !errors.Is(err, singleinstance.ErrNotPrimary) {
		t.Fatalf("secondary acquirePrimary = %v, want ErrNotPrimary", err)
	}
	if _, err := os.Stat(secondaryLogs); !os.IsNotExist(err) {
		t.Errorf("secondary created a log directory: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0].Args[1] != "sccompanion://headless" {
		t.Errorf("primary received %+v", received)
	}
}

func TestPrimaryWithoutDisplayReleasesGuard(t *testing.T) {
	si := testSingleton(t)
	logDir := filepath.Join(t.TempDir(), "logs")

	_, err := acquirePrimary(primaryOptions{
		Singleton:  si,
		Handler:    func(ipc.Activation) {},
		LogDir:     logDir,
		HasDisplay: func() bool { return false },
	}, ipc.Activation{Args: []string{"app"}})
	if !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("acquirePrimary = %v, want ErrNoDisplay", err)
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Errorf("log directory created without a display: %v", err)
	}

	guard, err := singleinstance.Acquire(si)
	if err != nil {
		t.Fatalf("guard not released: %v", err)
	}
	guard.Release()
}

func TestAcquirePrimaryGuardFailureIsWrapped(t *testing.T) {
	si := testSingleton(t)
	si.RuntimeDir = filepath.Join(si.RuntimeDir, "missing", "nested")
	// A file where the runtime directory should be makes the lock unopenable.
	blocker := filepath.Join(filepath.Dir(filepath.Dir(si.RuntimeDir)), "missing")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := acquirePrimary(primaryOptions{
		Singleton: si,
		Handler:   func(ipc.Activation) {},
	}, ipc.Activation{Args: []string{"app"}})
	if err == nil || errors.Is(err, singleinstance.ErrNotPrimary) {
		t.Fatalf("acquirePrimary = %v, want guard failure", err)
	}
	if !strings.Contains(err.Error(), "single-instance guard") {
		t.Errorf("error not wrapped: %v", err)
	}
}
