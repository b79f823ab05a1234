package netcomponents

import "github.com/yohamta/donburi"

// NetUnitData describes a damageable unit's archetype. It is written once at
// spawn and never mutated, so MaxHealth rides along without becoming a second
// mutable field that could drift from the health cell.
type NetUnitData struct {
	Kind      string // "player", "dummy", ...
	MaxHealth float64
}

var NetUnit = donburi.NewComponentType[NetUnitData]()
