package core

import "errors"

// Combat tunables. Plain numbers, not balancing targets.
const (
	PlayerMaxHealth = 100.0
	DummyMaxHealth  = 150.0

	DummySpacing = 4.0
	DummyLineZ   = 12.0
)

var errNoNetworkID = errors.New("sync layer did not assign a network id")
