package events

import "sync"

// Handler is a subscriber callback. Handlers must not block: slow consumers
// should hand the event off to their own buffered channel.
type Handler func(*Event)

// Bus is an in-process pub/sub bus for diagnostic events
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Handler
	all  []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], h)
}

// SubscribeAll registers a handler for every event type
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish delivers an event to all matching handlers synchronously
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Type])+len(b.all))
	handlers = append(handlers, b.subs[event.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
