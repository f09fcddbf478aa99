package wailsapp

import (
	"context"
	"testing"
	"time"

	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/ipc"
)

func newTestApp(bus *events.EventBus, launch ipc.Activation) (*App, *recorder) {
	rec := &recorder{}
	app := NewApp(nil, bus, nil)
	app.eventBridge.emit = rec.emit
	app.eventBridge.focus = rec.focus
	app.launch = launch
	return app, rec
}

func TestDeepLinkHeldUntilDomReady(t *testing.T) {
	bus := events.NewEventBus(16)
	defer bus.Close()
	app, rec := newTestApp(bus, ipc.Activation{Args: []string{"app"}})
	defer app.shutdown(context.Background())

	// Forwarded before the window exists.
	bus.PublishDeepLink("sccompanion://buffered")

	app.startup(context.Background())
	time.Sleep(30 * time.Millisecond)
	if emits, _ := rec.snapshot(); len(emits) != 0 {
		t.Fatalf("emitted before domReady: %+v", emits)
	}

	app.domReady(context.Background())
	waitFor(t, func() bool {
		emits, _ := rec.snapshot()
		return len(emits) == 1
	})

	emits, _ := rec.snapshot()
	if emits[0].name != EventDeepLinkReceived || emits[0].data[0] != "sccompanion://buffered" {
		t.Errorf("unexpected emit %+v", emits[0])
	}
}

func TestLaunchPayloadReplayedOnce(t *testing.T) {
	bus := events.NewEventBus(16)
	defer bus.Close()
	app, rec := newTestApp(bus, ipc.Activation{Args: []string{"app", "sccompanion://cold"}})
	defer app.shutdown(context.Background())

	app.startup(context.Background())
	app.domReady(context.Background())
	// A webview reload fires domReady again.
	app.domReady(context.Background())

	waitFor(t, func() bool {
		emits, _ := rec.snapshot()
		return len(emits) >= 1
	})
	time.Sleep(30 * time.Millisecond)

	emits, _ := rec.snapshot()
	if len(emits) != 1 {
		t.Fatalf("expected one emit, got %+v", emits)
	}
	if emits[0].data[0] != "sccompanion://cold" {
		t.Errorf("payload = %v, want sccompanion://cold", emits[0].data[0])
	}
}

func TestLaunchWithoutPayloadEmitsNothing(t *testing.T) {
	bus := events.NewEventBus(16)
	defer bus.Close()
	app, rec := newTestApp(bus, ipc.Activation{Args: []string{"app"}})
	defer app.shutdown(context.Background())

	app.startup(context.Background())
	app.domReady(context.Background())
	time.Sleep(30 * time.Millisecond)

	if emits, _ := rec.snapshot(); len(emits) != 0 {
		t.Errorf("unexpected emits %+v", emits)
	}
}
