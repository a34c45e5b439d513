package event

import (
	"fmt"
	"sync"

	"github.com/hupe1980/toolagent/logging"
)

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block for long.
type Handler func(ev Event)

// BusOptions configures a Bus.
type BusOptions struct {
	// Logger receives subscriber panics. Defaults to NoOpLogger.
	Logger logging.Logger
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous publish/subscribe registry keyed by Kind.
//
// Handlers for a kind are called in registration order, followed by the
// wildcard handlers registered through SubscribeAll. A handler that panics is
// recovered and logged; the remaining handlers still run and the publisher
// never observes the failure.
//
// A nil *Bus is valid: Publish builds the event and delivers it to nobody,
// Subscribe returns a no-op unsubscribe.
type Bus struct {
	mu       sync.RWMutex
	byKind   map[Kind][]subscription
	wildcard []subscription
	nextID   uint64
	logger   logging.Logger
}

// NewBus creates an empty bus.
func NewBus(optFns ...func(o *BusOptions)) *Bus {
	opts := BusOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bus{
		byKind: make(map[Kind][]subscription),
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Subscribe registers h for events of the given kind. The returned function
// removes the registration and is safe to call more than once.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	if b == nil || h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.byKind[kind] = append(b.byKind[kind], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byKind[kind] = remove(b.byKind[kind], id)
	}
}

// SubscribeAll registers h for every kind.
func (b *Bus) SubscribeAll(h Handler) func() {
	if b == nil || h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.wildcard = append(b.wildcard, subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = remove(b.wildcard, id)
	}
}

// Publish delivers an event to all current subscribers of kind and returns it.
func (b *Bus) Publish(kind Kind, source string, payload map[string]any) Event {
	ev := New(kind, source, payload)
	if b == nil {
		return ev
	}

	// Snapshot under the read lock so handlers may (un)subscribe while running.
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.byKind[kind])+len(b.wildcard))
	for _, s := range b.byKind[kind] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.wildcard {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}

	return ev
}

// HasSubscribers reports whether any handler would receive an event of kind.
func (b *Bus) HasSubscribers(kind Kind) bool {
	if b == nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.byKind[kind]) > 0 || len(b.wildcard) > 0
}

func (b *Bus) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event.handler.panic",
				"kind", string(ev.Kind),
				"event_id", ev.ID,
				"error", fmt.Sprint(r),
			)
		}
	}()

	h(ev)
}

func remove(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
