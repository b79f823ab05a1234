package client

import (
	"testing"

	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/shared/netconfig"
	"github.com/leap-fish/necs/esync"
)

func TestDirectoryTracksAvailability(t *testing.T) {
	events := event.NewDispatcher()
	r := NewReplica(events)
	d := NewDirectory(events)
	defer d.Close()

	r.ApplyStates([]EntityState{dummyState(100)})

	kind, ok := d.Kind(dummyID)
	if !ok || kind != netconfig.UnitDummy {
		t.Fatalf("expected (%q, true), got (%q, %v)", netconfig.UnitDummy, kind, ok)
	}
	if ids := d.ByKind(netconfig.UnitDummy); len(ids) != 1 || ids[0] != dummyID {
		t.Fatalf("unexpected ByKind result: %v", ids)
	}

	r.ApplyStates(nil)
	if _, ok := d.Kind(dummyID); ok {
		t.Fatal("removed unit still listed in directory")
	}
}

func TestWhenAvailableReplaysExistingUnits(t *testing.T) {
	events := event.NewDispatcher()
	r := NewReplica(events)
	d := NewDirectory(events)
	defer d.Close()

	// The target spawned before the consumer subscribed. No polling: the
	// subscription replays it immediately.
	r.ApplyStates([]EntityState{dummyState(100)})

	var seen []esync.NetworkId
	sub := d.WhenAvailable(netconfig.UnitDummy, func(id esync.NetworkId) {
		seen = append(seen, id)
	})
	defer sub.Close()

	if len(seen) != 1 || seen[0] != dummyID {
		t.Fatalf("expected immediate replay of unit %d, got %v", dummyID, seen)
	}
}

func TestWhenAvailableFiresForFutureUnits(t *testing.T) {
	events := event.NewDispatcher()
	r := NewReplica(events)
	d := NewDirectory(events)
	defer d.Close()

	var seen []esync.NetworkId
	sub := d.WhenAvailable(netconfig.UnitDummy, func(id esync.NetworkId) {
		seen = append(seen, id)
	})

	r.ApplyStates([]EntityState{dummyState(100)})

	if len(seen) != 1 || seen[0] != dummyID {
		t.Fatalf("expected notification for unit %d, got %v", dummyID, seen)
	}

	// After close, later spawns stay silent.
	sub.Close()
	r.ApplyStates(nil)
	r.ApplyStates([]EntityState{dummyState(100)})

	if len(seen) != 1 {
		t.Fatalf("closed subscription still fired: %v", seen)
	}
}

func TestWhenAvailableIgnoresOtherKinds(t *testing.T) {
	events := event.NewDispatcher()
	r := NewReplica(events)
	d := NewDirectory(events)
	defer d.Close()

	calls := 0
	sub := d.WhenAvailable(netconfig.UnitPlayer, func(esync.NetworkId) { calls++ })
	defer sub.Close()

	r.ApplyStates([]EntityState{dummyState(100)})

	if calls != 0 {
		t.Fatalf("player subscription fired for a dummy %d times", calls)
	}
}
