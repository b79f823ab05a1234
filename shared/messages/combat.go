package messages

import "github.com/leap-fish/necs/esync"

// DamageRequest asks the server to apply damage to a unit. Any participant
// may send it; only the server mutates health. Fire-and-forget: the caller
// gets no acknowledgement and sees the result through the next snapshot.
type DamageRequest struct {
	Target esync.NetworkId
	Amount float64
}

// HealRequest asks the server to heal a unit. Same routing rules as
// DamageRequest.
type HealRequest struct {
	Target esync.NetworkId
	Amount float64
}
