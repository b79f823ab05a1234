// Package event carries gameplay notifications between the replication core
// and its consumers (scoring, despawn coordination, logging). Subscriptions
// are scoped: Subscribe hands back a handle whose Close guarantees removal,
// so there is no manual add/remove pairing to leak or double-fire.
package event

import "sync"

type Type string

type Event struct {
	Type Type
	Data any
}

// Dispatcher fans events out to subscribers. Safe for concurrent use; the
// network layer dispatches from its own goroutines.
type Dispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[Type]map[uint64]func(Event)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Type]map[uint64]func(Event)),
	}
}

// Subscribe registers fn for events of type t. The returned handle removes
// the registration when closed.
func (d *Dispatcher) Subscribe(t Type, fn func(Event)) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	if d.listeners[t] == nil {
		d.listeners[t] = make(map[uint64]func(Event))
	}
	d.listeners[t][id] = fn

	return &Subscription{dispatcher: d, eventType: t, id: id}
}

// Dispatch delivers e to every live subscriber of e.Type. Handlers run on
// the dispatching goroutine, outside the dispatcher's lock, so a handler may
// subscribe or close subscriptions without deadlocking.
func (d *Dispatcher) Dispatch(e Event) {
	d.mu.RLock()
	fns := make([]func(Event), 0, len(d.listeners[e.Type]))
	for _, fn := range d.listeners[e.Type] {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Subscription is a scoped registration on a Dispatcher.
type Subscription struct {
	dispatcher *Dispatcher
	eventType  Type
	id         uint64
	once       sync.Once
}

// Close removes the registration. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		delete(s.dispatcher.listeners[s.eventType], s.id)
	})
}
