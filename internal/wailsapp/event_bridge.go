package wailsapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/sccompanion/sc-companion/internal/events"
	"github.com/sccompanion/sc-companion/internal/logging"
)

// Frontend event names.
const (
	// EventDeepLinkReceived carries the raw deep-link payload string.
	EventDeepLinkReceived = "deep-link-received"

	// EventDiscoveryCompleted carries a DiscoveryDTO.
	EventDiscoveryCompleted = "companion:discovery"
)

// emitFunc matches runtime.EventsEmit.
type emitFunc func(ctx context.Context, eventName string, optionalData ...interface{})

// focusFunc raises the main window.
type focusFunc func(ctx context.Context)

// EventBridge forwards events from the internal EventBus to the Wails runtime.
//
// The bridge subscribes in NewEventBridge, not in Start: activations that
// arrive between singleton acquisition and window startup stay buffered in
// the subscription and are emitted once domReady calls Start.
type EventBridge struct {
	ctx          context.Context
	eventBus     *events.EventBus
	subscription <-chan events.Event
	logger       *logging.Logger

	emit  emitFunc
	focus focusFunc

	stopC   chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
}

// NewEventBridge creates a bridge and subscribes it to eventBus.
func NewEventBridge(eventBus *events.EventBus, logger *logging.Logger) *EventBridge {
	if logger == nil {
		logger = logging.Nop()
	}
	return &EventBridge{
		eventBus:     eventBus,
		subscription: eventBus.SubscribeAll(),
		logger:       logger,
		emit:         runtime.EventsEmit,
		focus:        focusMainWindow,
		stopC:        make(chan struct{}),
	}
}

// Start begins forwarding events using the Wails runtime context.
func (eb *EventBridge) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.stopped {
		return fmt.Errorf("event bridge: already stopped")
	}
	if eb.started {
		eb.logger.Warn().Msg("Event bridge already started, ignoring duplicate Start()")
		return nil
	}
	if eb.subscription == nil {
		return fmt.Errorf("event bridge: failed to subscribe to event bus")
	}

	eb.ctx = ctx
	eb.started = true
	eb.wg.Add(1)
	go eb.forwardLoop()

	eb.logger.Debug().Msg("Event bridge started")
	return nil
}

// Stop stops forwarding events and drops the subscription.
func (eb *EventBridge) Stop() {
	eb.mu.Lock()
	if eb.stopped {
		eb.mu.Unlock()
		return
	}
	eb.stopped = true
	started := eb.started
	eb.started = false
	sub := eb.subscription
	eb.mu.Unlock()

	close(eb.stopC)
	if started {
		eb.wg.Wait()
	}
	eb.eventBus.UnsubscribeAll(sub)

	eb.logger.Debug().Msg("Event bridge stopped")
}

func (eb *EventBridge) forwardLoop() {
	defer eb.wg.Done()

	for {
		select {
		case event, ok := <-eb.subscription:
			if !ok {
				return
			}
			eb.forwardEvent(event)

		case <-eb.stopC:
			return
		}
	}
}

func (eb *EventBridge) forwardEvent(event events.Event) {
	switch e := event.(type) {
	case *events.ActivationEvent:
		// A relaunch with or without payload brings the existing window forward.
		eb.focus(eb.ctx)

	case *events.DeepLinkEvent:
		eb.logger.Debug().Str("payload", e.URL).Msg("Emitting deep link to frontend")
		eb.emit(eb.ctx, EventDeepLinkReceived, e.URL)

	case *events.DiscoveryEvent:
		eb.emit(eb.ctx, EventDiscoveryCompleted, discoveryEventToDTO(e))
	}
}

// DiscoveryDTO is the frontend shape of a discovery run.
type DiscoveryDTO struct {
	Strategy string   `json:"strategy,omitempty"`
	Paths    []string `json:"paths"`
	Error    string   `json:"error,omitempty"`
}

func discoveryEventToDTO(e *events.DiscoveryEvent) DiscoveryDTO {
	dto := DiscoveryDTO{Strategy: e.Strategy, Paths: e.Paths}
	if dto.Paths == nil {
		dto.Paths = []string{}
	}
	if e.Error != nil {
		dto.Error = userMessage(e.Error)
	}
	return dto
}

func focusMainWindow(ctx context.Context) {
	runtime.WindowUnminimise(ctx)
	runtime.WindowShow(ctx)
}
