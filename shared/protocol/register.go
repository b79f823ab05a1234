package protocol

import (
	"github.com/holdfast/rampart-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition uint = 10
	SyncIDNetHealth   uint = 11
	SyncIDNetUnit     uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
)

// RegisterComponents registers all network components with necs for
// serialization. This must be called by both server and client before any
// network operations.
func RegisterComponents() error {
	// Position interpolates for smooth remote movement
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		netcomponents.NetPositionData{},
		netcomponents.NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, netcomponents.LerpNetPosition),
	); err != nil {
		return err
	}

	// Health: no interpolation, the value is discrete and authoritative
	if err := esync.RegisterComponent(
		SyncIDNetHealth,
		netcomponents.NetHealthData{},
		netcomponents.NetHealth,
	); err != nil {
		return err
	}

	// Unit archetype: written once at spawn
	if err := esync.RegisterComponent(
		SyncIDNetUnit,
		netcomponents.NetUnitData{},
		netcomponents.NetUnit,
	); err != nil {
		return err
	}

	return nil
}
