package singleinstance

import (
	"testing"
	"time"

	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/ipc"
)

func TestDeepLinkPayload(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   string
		wantOK bool
	}{
		{"no args", nil, "", false},
		{"program only", []string{"sc-companion.exe"}, "", false},
		{"payload", []string{"sc-companion.exe", "sccompanion://open/ship"}, "sccompanion://open/ship", true},
		{"extra args ignored", []string{"sc-companion.exe", "first", "second"}, "first", true},
		{"not a url", []string{"sc-companion.exe", "--flag"}, "--flag", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeepLinkPayload(ipc.Activation{Args: tt.args})
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DeepLinkPayload(%v) = (%q, %v), want (%q, %v)", tt.args, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDeepLinkHandlerPublishesPayload(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	deepLinks := bus.Subscribe(events.EventDeepLink)
	activations := bus.Subscribe(events.EventActivation)

	handler := DeepLinkHandler(bus, nil)
	handler(ipc.Activation{Args: []string{"app", "sccompanion://x"}, WorkingDirectory: "/tmp"})

	select {
	case ev := <-deepLinks:
		dl, ok := ev.(*events.DeepLinkEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		if dl.URL != "sccompanion://x" {
			t.Errorf("URL = %q, want sccompanion://x", dl.URL)
		}
	case <-time.After(time.Second):
		t.Fatal("no deep link event published")
	}

	select {
	case ev := <-activations:
		act := ev.(*events.ActivationEvent)
		if act.WorkingDirectory != "/tmp" || len(act.Args) != 2 {
			t.Errorf("unexpected activation event %+v", act)
		}
	case <-time.After(time.Second):
		t.Fatal("no activation event published")
	}
}

func TestDeepLinkHandlerSkipsEmptyRelaunch(t *testing.T) {
	bus := events.NewEventBus(8)
	defer bus.Close()
	deepLinks := bus.Subscribe(events.EventDeepLink)
	activations := bus.Subscribe(events.EventActivation)

	handler := DeepLinkHandler(bus, nil)
	handler(ipc.Activation{Args: []string{"app"}})

	select {
	case <-activations:
	case <-time.After(time.Second):
		t.Fatal("activation event should still be published")
	}

	select {
	case ev := <-deepLinks:
		t.Fatalf("unexpected deep link event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
