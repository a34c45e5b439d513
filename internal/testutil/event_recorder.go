package testutil

import (
	"sync"

	"github.com/hupe1980/toolagent/event"
)

// EventRecorder captures every event published on a bus.
// Example:
//
//	rec := NewEventRecorder(bus)
//	// ... run agent ...
//	assert.Equal(t, []event.Kind{event.AgentStart, event.AgentEnd}, rec.Kinds())
type EventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

// NewEventRecorder creates a recorder subscribed to all kinds on bus.
func NewEventRecorder(bus *event.Bus) *EventRecorder {
	r := &EventRecorder{}
	bus.SubscribeAll(r.Handle)
	return r
}

// Handle records ev. It can be subscribed manually for a subset of kinds.
func (r *EventRecorder) Handle(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns all recorded events in publish order.
func (r *EventRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Kinds returns the kinds of all recorded events in publish order.
func (r *EventRecorder) Kinds() []event.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]event.Kind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// Of returns the recorded events of kind.
func (r *EventRecorder) Of(kind event.Kind) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []event.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event of kind and whether one exists.
func (r *EventRecorder) Last(kind event.Kind) (event.Event, bool) {
	evs := r.Of(kind)
	if len(evs) == 0 {
		return event.Event{}, false
	}
	return evs[len(evs)-1], true
}

// Reset discards all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
