// Package client mirrors the server's replicated world on an observer.
// It never writes health; all mutation requests travel to the server and
// come back through snapshots.
package client

import (
	"log"

	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// unitRow is the observer-local bookkeeping for one replicated unit.
type unitRow struct {
	entity    donburi.Entity
	kind      string
	maxHealth float64
	health    float64
	synced    bool // true once the first authoritative health value landed
	announced bool // UnitAvailable dispatched
}

// Replica applies world snapshots into a local donburi world and derives
// gameplay events from the transitions it observes: HealthChanged, Damaged,
// Healed, a one-shot Died per unit, and Removed when a unit disappears from
// the snapshot stream. Not safe for concurrent use; apply snapshots from a
// single update goroutine.
type Replica struct {
	world  donburi.World
	events *event.Dispatcher
	units  map[esync.NetworkId]*unitRow
	// dead outlives unit rows: the one-shot death flag must hold even if a
	// stale snapshot resurfaces an id after teardown.
	dead    map[esync.NetworkId]bool
	present map[esync.NetworkId]bool // scratch, reused across snapshots
}

func NewReplica(events *event.Dispatcher) *Replica {
	return &Replica{
		world:   donburi.NewWorld(),
		events:  events,
		units:   make(map[esync.NetworkId]*unitRow),
		dead:    make(map[esync.NetworkId]bool),
		present: make(map[esync.NetworkId]bool),
	}
}

// EntityState is one unit's decoded share of a snapshot.
type EntityState struct {
	Id         esync.NetworkId
	Components []any
}

// ApplySnapshot decodes one server snapshot and reconciles the local world
// against it.
func (r *Replica) ApplySnapshot(snapshot esync.WorldSnapshot) {
	states := make([]EntityState, 0, len(snapshot))

	for _, ent := range snapshot {
		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				log.Printf("[client] skipping undecodable component for unit %d: %v", ent.Id, err)
				continue
			}
			compData = append(compData, instance)
		}
		states = append(states, EntityState{Id: ent.Id, Components: compData})
	}

	r.ApplyStates(states)
}

// ApplyStates reconciles the local world against one decoded snapshot.
// Units absent from states are torn down: the server already removed them,
// absence is the deletion event.
func (r *Replica) ApplyStates(states []EntityState) {
	clear(r.present)

	for _, st := range states {
		r.present[st.Id] = true
		r.applyEntityState(st.Id, st.Components)
	}

	for id := range r.units {
		if !r.present[id] {
			r.removeUnit(id)
		}
	}
}

// applyEntityState reconciles one unit's decoded component values.
func (r *Replica) applyEntityState(id esync.NetworkId, components []any) {
	row, ok := r.units[id]
	if !ok {
		row = r.createUnit(id, components)
	}

	entry := r.world.Entry(row.entity)

	for _, data := range components {
		switch v := data.(type) {
		case netcomponents.NetPositionData:
			netcomponents.NetPosition.SetValue(entry, v)
		case netcomponents.NetUnitData:
			netcomponents.NetUnit.SetValue(entry, v)
			row.kind = v.Kind
			row.maxHealth = v.MaxHealth
		case netcomponents.NetHealthData:
			r.applyHealth(id, row, entry, v)
		}
	}

	// Announce the unit once its archetype is known, so consumers waiting
	// on a target get a readiness signal instead of polling the world.
	if !row.announced && row.kind != "" {
		row.announced = true
		r.events.Dispatch(event.Event{Type: event.TypeUnitAvailable, Data: event.UnitAvailable{
			Unit: id,
			Kind: row.kind,
		}})
	}
}

// applyHealth is the observer end of the replicated cell: it stores the new
// value and turns transitions into local notifications, in the order the
// server performed the writes.
func (r *Replica) applyHealth(id esync.NetworkId, row *unitRow, entry *donburi.Entry, v netcomponents.NetHealthData) {
	netcomponents.NetHealth.SetValue(entry, v)

	if !v.Initialized {
		// The authority has not written yet; nothing to observe.
		return
	}

	prev, hadPrev := row.health, row.synced
	row.health = v.Current
	row.synced = true

	// The first synced value is catch-up, not a change: a late joiner sees
	// the current value without replaying the damage that led to it.
	if hadPrev && v.Current != prev {
		r.events.Dispatch(event.Event{Type: event.TypeHealthChanged, Data: event.HealthChanged{
			Unit:     id,
			Previous: prev,
			Current:  v.Current,
		}})
		if v.Current < prev {
			r.events.Dispatch(event.Event{Type: event.TypeDamaged, Data: event.Damaged{
				Unit:   id,
				Amount: prev - v.Current,
			}})
		} else {
			r.events.Dispatch(event.Event{Type: event.TypeHealed, Data: event.Healed{
				Unit:   id,
				Amount: v.Current - prev,
			}})
		}
	}

	if !r.dead[id] && v.Current <= 0 {
		r.dead[id] = true
		r.events.Dispatch(event.Event{Type: event.TypeDied, Data: event.Died{Unit: id}})
	}
}

func (r *Replica) createUnit(id esync.NetworkId, components []any) *unitRow {
	ctypes := componentTypesFromInstances(components)
	entity := r.world.Create(ctypes...)

	entry := r.world.Entry(entity)
	entry.AddComponent(esync.NetworkIdComponent)
	esync.NetworkIdComponent.SetValue(entry, id)

	row := &unitRow{entity: entity}
	r.units[id] = row
	return row
}

func (r *Replica) removeUnit(id esync.NetworkId) {
	row := r.units[id]
	delete(r.units, id)

	if r.world.Valid(row.entity) {
		r.world.Remove(row.entity)
	}

	r.events.Dispatch(event.Event{Type: event.TypeRemoved, Data: event.Removed{Unit: id}})
}

// CurrentHealth returns the last replicated health value. ok is false until
// the first authoritative value has arrived, so a not-yet-synced unit is
// never mistaken for a dead one.
func (r *Replica) CurrentHealth(id esync.NetworkId) (value float64, ok bool) {
	row, exists := r.units[id]
	if !exists || !row.synced {
		return 0, false
	}
	return row.health, true
}

// MaxHealth returns the unit's archetype max health, once known.
func (r *Replica) MaxHealth(id esync.NetworkId) (value float64, ok bool) {
	row, exists := r.units[id]
	if !exists || row.maxHealth <= 0 {
		return 0, false
	}
	return row.maxHealth, true
}

// HealthPercentage is CurrentHealth/MaxHealth in [0, 1].
func (r *Replica) HealthPercentage(id esync.NetworkId) (value float64, ok bool) {
	hp, ok := r.CurrentHealth(id)
	if !ok {
		return 0, false
	}
	max, ok := r.MaxHealth(id)
	if !ok {
		return 0, false
	}
	return hp / max, true
}

// IsDead reports whether this observer has seen the unit's health at or
// below zero. Stays true for removed units for the lifetime of the replica.
func (r *Replica) IsDead(id esync.NetworkId) bool {
	return r.dead[id]
}

// Contains reports whether the unit currently exists in the local world.
func (r *Replica) Contains(id esync.NetworkId) bool {
	_, exists := r.units[id]
	return exists
}

// World exposes the local mirror world for read-only consumers.
func (r *Replica) World() donburi.World {
	return r.world
}

func componentTypesFromInstances(components []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range components {
		switch data.(type) {
		case netcomponents.NetPositionData:
			ctypes = append(ctypes, netcomponents.NetPosition)
		case netcomponents.NetUnitData:
			ctypes = append(ctypes, netcomponents.NetUnit)
		case netcomponents.NetHealthData:
			ctypes = append(ctypes, netcomponents.NetHealth)
		}
	}
	return ctypes
}
