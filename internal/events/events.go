// Package events carries in-process notifications from the core (singleton
// coordinator, discovery engine) to the UI bridge.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// EventDeepLink is published when a forwarded activation carried a payload.
	EventDeepLink EventType = "deep_link"

	// EventActivation is published for every forwarded activation, payload or not.
	EventActivation EventType = "activation"

	// EventDiscovery is published after each discovery run.
	EventDiscovery EventType = "discovery"
)

const (
	// DefaultBufferSize is used when NewEventBus is given a non-positive size.
	DefaultBufferSize = 256

	// MaxBufferSize caps per-subscriber buffers.
	MaxBufferSize = 4096
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ActivationEvent records a launch forwarded by a secondary instance.
type ActivationEvent struct {
	BaseEvent
	Args             []string
	WorkingDirectory string
}

// DeepLinkEvent carries the opaque deep-link payload (argument index 1).
type DeepLinkEvent struct {
	BaseEvent
	URL string
}

// DiscoveryEvent summarises one discovery run.
type DiscoveryEvent struct {
	BaseEvent
	Strategy string   // strategy that produced the result, empty on failure
	Paths    []string // returned paths
	Error    error
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if bufferSize > MaxBufferSize {
		bufferSize = MaxBufferSize
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking. Events that do
// not fit a subscriber's buffer are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// PublishActivation publishes an ActivationEvent.
func (eb *EventBus) PublishActivation(args []string, workingDirectory string) {
	eb.Publish(&ActivationEvent{
		BaseEvent:        BaseEvent{EventType: EventActivation, Time: time.Now()},
		Args:             append([]string(nil), args...),
		WorkingDirectory: workingDirectory,
	})
}

// PublishDeepLink publishes a DeepLinkEvent.
func (eb *EventBus) PublishDeepLink(url string) {
	eb.Publish(&DeepLinkEvent{
		BaseEvent: BaseEvent{EventType: EventDeepLink, Time: time.Now()},
		URL:       url,
	})
}

// PublishDiscovery publishes a DiscoveryEvent.
func (eb *EventBus) PublishDiscovery(strategy string, paths []string, err error) {
	eb.Publish(&DiscoveryEvent{
		BaseEvent: BaseEvent{EventType: EventDiscovery, Time: time.Now()},
		Strategy:  strategy,
		Paths:     append([]string(nil), paths...),
		Error:     err,
	})
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// Unsubscribe removes a subscription channel from a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a subscription channel from all event types
func (eb *EventBus) UnsubscribeAll(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	for eventType, subscribers := range eb.subscribers {
		for i, subCh := range subscribers {
			if subCh == ch {
				subscribers[i] = subscribers[len(subscribers)-1]
				eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
				break
			}
		}
	}

	for i, subCh := range eb.all {
		if subCh == ch {
			eb.all[i] = eb.all[len(eb.all)-1]
			eb.all = eb.all[:len(eb.all)-1]
			break
		}
	}
}

// DroppedEventCount returns the total number of events dropped due to full buffers
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}
