package core

import (
	"testing"

	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

const testUnitID = esync.NetworkId(7)

func newTestUnit(t *testing.T, maxHealth float64) (donburi.World, *Damageable, *event.Dispatcher) {
	t.Helper()

	world := donburi.NewWorld()
	entity := world.Create(netcomponents.NetHealth, netcomponents.NetUnit)
	events := event.NewDispatcher()
	unit := NewDamageable(world, entity, testUnitID, maxHealth, events)
	return world, unit, events
}

// record subscribes to a type and collects everything dispatched to it.
func record(t *testing.T, events *event.Dispatcher, eventType event.Type) *[]event.Event {
	t.Helper()

	var seen []event.Event
	sub := events.Subscribe(eventType, func(e event.Event) {
		seen = append(seen, e)
	})
	t.Cleanup(sub.Close)
	return &seen
}

func TestNewDamageableInitializesHealth(t *testing.T) {
	_, unit, _ := newTestUnit(t, 100)

	if hp := unit.CurrentHealth(); hp != 100 {
		t.Fatalf("expected initial health 100, got %.1f", hp)
	}
	if unit.IsDead() {
		t.Fatal("freshly spawned unit should not be dead")
	}
	if pct := unit.HealthPercentage(); pct != 1 {
		t.Fatalf("expected health percentage 1, got %.2f", pct)
	}
}

func TestApplyDamageReducesHealthAndNotifies(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	damaged := record(t, events, event.TypeDamaged)

	unit.ApplyDamage(30)

	if hp := unit.CurrentHealth(); hp != 70 {
		t.Fatalf("expected health 70 after 30 damage, got %.1f", hp)
	}
	if len(*damaged) != 1 {
		t.Fatalf("expected 1 damaged event, got %d", len(*damaged))
	}
	if data := (*damaged)[0].Data.(event.Damaged); data.Amount != 30 || data.Unit != testUnitID {
		t.Fatalf("unexpected damaged payload: %+v", data)
	}
}

func TestLethalDamageFiresDeathOnce(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	died := record(t, events, event.TypeDied)

	unit.ApplyDamage(30)
	unit.ApplyDamage(80)

	if hp := unit.CurrentHealth(); hp != 0 {
		t.Fatalf("expected health clamped to 0, got %.1f", hp)
	}
	if !unit.IsDead() {
		t.Fatal("unit should be dead")
	}
	if len(*died) != 1 {
		t.Fatalf("expected exactly 1 death event, got %d", len(*died))
	}

	// Late hits against the corpse change nothing and fire nothing.
	unit.ApplyDamage(10)
	if hp := unit.CurrentHealth(); hp != 0 {
		t.Fatalf("dead unit's health changed to %.1f", hp)
	}
	if len(*died) != 1 {
		t.Fatalf("death fired again: %d events", len(*died))
	}
}

func TestSimultaneousLethalHitsKillOnce(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	died := record(t, events, event.TypeDied)

	// Two hits landing in the same tick. The second arrives after the unit
	// is already dead and must be swallowed.
	unit.ApplyDamage(60)
	unit.ApplyDamage(60)

	if hp := unit.CurrentHealth(); hp != 0 {
		t.Fatalf("expected health 0, got %.1f", hp)
	}
	if len(*died) != 1 {
		t.Fatalf("expected exactly 1 death event, got %d", len(*died))
	}
}

func TestHealClampsToMaxHealth(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	healed := record(t, events, event.TypeHealed)

	unit.ApplyDamage(30)
	unit.Heal(50)

	if hp := unit.CurrentHealth(); hp != 100 {
		t.Fatalf("expected health clamped to 100, got %.1f", hp)
	}
	if len(*healed) != 1 {
		t.Fatalf("expected 1 healed event, got %d", len(*healed))
	}
}

func TestHealDeadUnitIsNoop(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	healed := record(t, events, event.TypeHealed)

	unit.ApplyDamage(100)
	unit.Heal(50)

	if hp := unit.CurrentHealth(); hp != 0 {
		t.Fatalf("dead unit was healed to %.1f", hp)
	}
	if len(*healed) != 0 {
		t.Fatalf("heal event fired on a dead unit")
	}
}

func TestNegativeAmountsAreRejected(t *testing.T) {
	_, unit, events := newTestUnit(t, 100)
	damaged := record(t, events, event.TypeDamaged)
	healed := record(t, events, event.TypeHealed)

	unit.ApplyDamage(-25)
	unit.Heal(-25)

	if hp := unit.CurrentHealth(); hp != 100 {
		t.Fatalf("negative amount changed health to %.1f", hp)
	}
	if len(*damaged) != 0 || len(*healed) != 0 {
		t.Fatal("rejected amounts must not notify")
	}
}

func TestDeathSchedulesDespawnAfterDelay(t *testing.T) {
	prev := DespawnDelayTicks
	DespawnDelayTicks = 3
	defer func() { DespawnDelayTicks = prev }()

	world, unit, events := newTestUnit(t, 50)
	removed := record(t, events, event.TypeRemoved)

	unit.ApplyDamage(50)

	for i := 0; i < 2; i++ {
		if unit.TickDespawn() {
			t.Fatalf("despawned %d ticks early", 2-i)
		}
		if len(*removed) != 0 {
			t.Fatal("removed before the grace period elapsed")
		}
	}

	if !unit.TickDespawn() {
		t.Fatal("expected despawn on the final tick")
	}
	if len(*removed) != 1 {
		t.Fatalf("expected 1 removed event, got %d", len(*removed))
	}
	if world.Len() != 0 {
		t.Fatalf("expected empty world after despawn, got %d entities", world.Len())
	}
}

func TestDespawnIsIdempotent(t *testing.T) {
	_, unit, events := newTestUnit(t, 50)
	removed := record(t, events, event.TypeRemoved)

	unit.Despawn()
	unit.Despawn()

	if len(*removed) != 1 {
		t.Fatalf("expected 1 removed event after double despawn, got %d", len(*removed))
	}
}

func TestDespawnTimerSkipsAlreadyRemovedUnit(t *testing.T) {
	prev := DespawnDelayTicks
	DespawnDelayTicks = 2
	defer func() { DespawnDelayTicks = prev }()

	_, unit, events := newTestUnit(t, 50)
	removed := record(t, events, event.TypeRemoved)

	unit.ApplyDamage(50)
	// Something else removed the entity before the timer fired.
	unit.Despawn()

	for i := 0; i < 5 && !unit.TickDespawn(); i++ {
	}
	if len(*removed) != 1 {
		t.Fatalf("stale despawn timer produced %d removed events, want 1", len(*removed))
	}
}

func TestCurrentHealthAfterRemovalIsZero(t *testing.T) {
	_, unit, _ := newTestUnit(t, 50)

	unit.Despawn()

	if hp := unit.CurrentHealth(); hp != 0 {
		t.Fatalf("expected 0 health for removed unit, got %.1f", hp)
	}
}
