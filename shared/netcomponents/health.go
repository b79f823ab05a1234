package netcomponents

import "github.com/yohamta/donburi"

// NetHealthData is the authoritative health cell of a damageable unit.
// Only the server writes it; observers receive it through world snapshots.
// Initialized distinguishes "the server has written a value" from the codec
// zero value, so an observer never mistakes a not-yet-synced cell for death.
type NetHealthData struct {
	Current     float64
	Initialized bool
}

var NetHealth = donburi.NewComponentType[NetHealthData]()
