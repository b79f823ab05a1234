package event

import "github.com/leap-fish/necs/esync"

const (
	TypeDamaged       Type = "damaged"
	TypeHealed        Type = "healed"
	TypeDied          Type = "died"
	TypeRemoved       Type = "removed"
	TypeHealthChanged Type = "health-changed"
	TypeUnitAvailable Type = "unit-available"
)

// Damaged fires when a unit takes damage: synchronously on the server,
// one replication round-trip later on each observer.
type Damaged struct {
	Unit   esync.NetworkId
	Amount float64
}

// Healed mirrors Damaged for healing.
type Healed struct {
	Unit   esync.NetworkId
	Amount float64
}

// Died fires exactly once per participant when a unit's health is first
// observed at or below zero.
type Died struct {
	Unit esync.NetworkId
}

// Removed fires when a unit leaves the replicated world and its local
// resources have been torn down.
type Removed struct {
	Unit esync.NetworkId
}

// HealthChanged reports every health cell transition in the order the
// server performed the writes.
type HealthChanged struct {
	Unit     esync.NetworkId
	Previous float64
	Current  float64
}

// UnitAvailable fires when a unit is first seen in the replicated world,
// replacing poll-and-retry lookups by consumers that spawn before their
// target does.
type UnitAvailable struct {
	Unit esync.NetworkId
	Kind string
}
