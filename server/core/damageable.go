package core

import (
	"log"

	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/shared/netcomponents"
	"github.com/holdfast/rampart-mp/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// DespawnDelayTicks is the grace period between death and removal, in loop
// ticks. Overridden by the -despawndelay server flag.
var DespawnDelayTicks = netconfig.DefaultDespawnDelayTicks

// Damageable is the authoritative view of one replicated unit's health. It
// is the only path through which the health cell changes; clients reach it
// via DamageRequest/HealRequest messages, server-side systems call it
// directly. All methods must run on the game loop goroutine.
type Damageable struct {
	world     donburi.World
	entity    donburi.Entity
	id        esync.NetworkId
	maxHealth float64
	events    *event.Dispatcher

	dead bool
	// despawnIn counts loop ticks until removal once dead; -1 = unscheduled.
	despawnIn int
}

// NewDamageable initializes the unit's health cell to maxHealth and returns
// its authority-side handle. The entity must already carry NetHealth.
func NewDamageable(world donburi.World, entity donburi.Entity, id esync.NetworkId, maxHealth float64, events *event.Dispatcher) *Damageable {
	d := &Damageable{
		world:     world,
		entity:    entity,
		id:        id,
		maxHealth: maxHealth,
		events:    events,
		despawnIn: -1,
	}

	entry := world.Entry(entity)
	netcomponents.NetHealth.Set(entry, &netcomponents.NetHealthData{
		Current:     maxHealth,
		Initialized: true,
	})
	return d
}

func (d *Damageable) NetworkID() esync.NetworkId { return d.id }
func (d *Damageable) MaxHealth() float64         { return d.maxHealth }
func (d *Damageable) IsDead() bool               { return d.dead }

// CurrentHealth reads the authoritative cell. Returns 0 after removal.
func (d *Damageable) CurrentHealth() float64 {
	if !d.world.Valid(d.entity) {
		return 0
	}
	return netcomponents.NetHealth.Get(d.world.Entry(d.entity)).Current
}

// HealthPercentage is CurrentHealth/MaxHealth in [0, 1].
func (d *Damageable) HealthPercentage() float64 {
	if d.maxHealth <= 0 {
		return 0
	}
	return d.CurrentHealth() / d.maxHealth
}

// ApplyDamage subtracts amount from the health cell. Negative amounts are
// rejected: healing goes through Heal, never through a negative hit. Dead or
// removed units are left untouched, so a late hit after a lethal one neither
// drives health further down nor re-triggers death.
func (d *Damageable) ApplyDamage(amount float64) {
	if amount < 0 {
		log.Printf("[server] rejected negative damage %.1f for unit %d", amount, d.id)
		return
	}
	if d.dead || !d.world.Valid(d.entity) {
		return
	}

	entry := d.world.Entry(d.entity)
	hp := netcomponents.NetHealth.Get(entry)
	next := hp.Current - amount

	// Clamp at the mutation point: observers never see a negative value.
	if next < 0 {
		next = 0
	}
	hp.Current = next
	hp.Initialized = true

	d.events.Dispatch(event.Event{Type: event.TypeDamaged, Data: event.Damaged{
		Unit:   d.id,
		Amount: amount,
	}})

	if next <= 0 {
		d.die()
	}
}

// Heal raises the health cell by amount, clamped to MaxHealth. No-op on
// dead units; negative amounts are rejected like negative damage.
func (d *Damageable) Heal(amount float64) {
	if amount < 0 {
		log.Printf("[server] rejected negative heal %.1f for unit %d", amount, d.id)
		return
	}
	if d.dead || !d.world.Valid(d.entity) {
		return
	}

	entry := d.world.Entry(d.entity)
	hp := netcomponents.NetHealth.Get(entry)
	hp.Current += amount
	if hp.Current > d.maxHealth {
		hp.Current = d.maxHealth
	}

	d.events.Dispatch(event.Event{Type: event.TypeHealed, Data: event.Healed{
		Unit:   d.id,
		Amount: amount,
	}})
}

// die runs the one-shot death transition: mark dead, notify listeners, and
// schedule removal after the despawn grace period. Guarded by the dead flag
// so racing lethal hits in the same tick produce a single death.
func (d *Damageable) die() {
	if d.dead {
		return
	}
	d.dead = true
	d.despawnIn = DespawnDelayTicks

	d.events.Dispatch(event.Event{Type: event.TypeDied, Data: event.Died{Unit: d.id}})
}

// TickDespawn advances the scheduled removal by one loop tick. Returns true
// once the unit has left the world and its handle can be dropped.
func (d *Damageable) TickDespawn() bool {
	if d.despawnIn < 0 {
		return false
	}
	d.despawnIn--
	if d.despawnIn > 0 {
		return false
	}
	d.despawnIn = -1
	d.Despawn()
	return true
}

// Despawn removes the unit from the replicated world; the sync layer
// propagates the removal as absence from the next snapshot. Idempotent: a
// second call, or a despawn timer firing after the entity is already gone,
// does nothing.
func (d *Damageable) Despawn() {
	if !d.world.Valid(d.entity) {
		return
	}
	d.world.Remove(d.entity)

	d.events.Dispatch(event.Event{Type: event.TypeRemoved, Data: event.Removed{Unit: d.id}})
}
