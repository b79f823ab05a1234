// Package netconfig defines lightweight types and tunables shared between
// client and server for network serialization. It must stay free of any
// engine or rendering dependency so the dedicated server binary stays
// headless.
package netconfig

// ProtocolVersion gates joins: a server started with a non-empty -version
// flag rejects clients built against a different protocol revision.
const ProtocolVersion = "0.2.0"

// Unit kinds carried in NetUnitData.Kind.
const (
	UnitPlayer = "player"
	UnitDummy  = "dummy"
)

// DefaultTickRate is the server simulation rate in ticks per second.
const DefaultTickRate = 20

// DefaultDespawnDelayTicks is the grace period between a unit dying and the
// server removing it from the replicated world, leaving observers time to
// play out death effects before the entity disappears from snapshots.
const DefaultDespawnDelayTicks = 20
