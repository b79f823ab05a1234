package client

import (
	"sync"

	"github.com/holdfast/rampart-mp/event"
	"github.com/leap-fish/necs/esync"
)

// Directory tracks which units exist in the replicated world and lets
// consumers wait for one to appear. Spawn ordering across the network is not
// guaranteed, so a consumer that needs a target subscribes for a readiness
// signal instead of re-scanning the world on a retry timer.
type Directory struct {
	mu    sync.RWMutex
	kinds map[esync.NetworkId]string

	events       *event.Dispatcher
	availableSub *event.Subscription
	removedSub   *event.Subscription
}

func NewDirectory(events *event.Dispatcher) *Directory {
	d := &Directory{
		kinds:  make(map[esync.NetworkId]string),
		events: events,
	}

	d.availableSub = events.Subscribe(event.TypeUnitAvailable, func(e event.Event) {
		data := e.Data.(event.UnitAvailable)
		d.mu.Lock()
		d.kinds[data.Unit] = data.Kind
		d.mu.Unlock()
	})

	d.removedSub = events.Subscribe(event.TypeRemoved, func(e event.Event) {
		data := e.Data.(event.Removed)
		d.mu.Lock()
		delete(d.kinds, data.Unit)
		d.mu.Unlock()
	})

	return d
}

// Close detaches the directory from the event stream.
func (d *Directory) Close() {
	d.availableSub.Close()
	d.removedSub.Close()
}

// Kind returns a unit's archetype kind, if the unit currently exists.
func (d *Directory) Kind(id esync.NetworkId) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	kind, ok := d.kinds[id]
	return kind, ok
}

// ByKind lists the units of a given kind currently in the world.
func (d *Directory) ByKind(kind string) []esync.NetworkId {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []esync.NetworkId
	for id, k := range d.kinds {
		if k == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// WhenAvailable invokes fn for every current unit of the given kind and for
// every one that appears later, until the returned subscription is closed.
func (d *Directory) WhenAvailable(kind string, fn func(id esync.NetworkId)) *event.Subscription {
	sub := d.events.Subscribe(event.TypeUnitAvailable, func(e event.Event) {
		data := e.Data.(event.UnitAvailable)
		if data.Kind == kind {
			fn(data.Unit)
		}
	})

	// Replay units that appeared before the subscription existed.
	for _, id := range d.ByKind(kind) {
		fn(id)
	}

	return sub
}
