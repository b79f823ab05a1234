package core

import (
	"log"
	"sync"

	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/shared/messages"
	"github.com/holdfast/rampart-mp/shared/netcomponents"
	"github.com/holdfast/rampart-mp/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server owns the authoritative world. All world mutation happens on the
// game loop goroutine; router callbacks only enqueue commands.
type Server struct {
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport
	events    *event.Dispatcher

	name    string
	version string

	mu          sync.RWMutex
	clientUnits map[*router.NetworkClient]esync.NetworkId
	commands    []func()

	damageables map[esync.NetworkId]*Damageable
}

// NewServer creates a game server. version gates joins when non-empty.
func NewServer(tickRate int, name, version string) *Server {
	world := donburi.NewWorld()

	s := &Server{
		world:       world,
		events:      event.NewDispatcher(),
		name:        name,
		version:     version,
		clientUnits: make(map[*router.NetworkClient]esync.NetworkId),
		damageables: make(map[esync.NetworkId]*Damageable),
	}
	s.loop = NewGameLoop(s, tickRate)

	srvsync.UseEsync(world)
	s.setupRouterCallbacks()

	return s
}

// Start begins the server on the given port. Blocks until the transport
// shuts down.
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.loop.Stop()
}

// Events exposes the server-local dispatcher. Damaged/Died/Removed fire
// here synchronously with the authoritative mutation.
func (s *Server) Events() *event.Dispatcher {
	return s.events
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.onJoinRequest(client, req)
	})

	router.On(func(client *router.NetworkClient, req messages.DamageRequest) {
		s.Enqueue(func() { s.RequestDamage(req.Target, req.Amount) })
	})

	router.On(func(client *router.NetworkClient, req messages.HealRequest) {
		s.Enqueue(func() { s.RequestHeal(req.Target, req.Amount) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) onJoinRequest(client *router.NetworkClient, req messages.JoinRequest) {
	if s.version != "" && req.Version != s.version {
		log.Printf("[server] rejecting %s: version %q, want %q", client.Id(), req.Version, s.version)
		if err := client.SendMessage(messages.JoinRejected{Reason: "version mismatch"}); err != nil {
			log.Printf("[server] failed to send join rejection: %v", err)
		}
		return
	}

	s.Enqueue(func() {
		unit, err := s.SpawnUnit(netconfig.UnitPlayer, PlayerMaxHealth, 0, 0, 0)
		if err != nil {
			log.Printf("[server] failed to spawn player for %s: %v", client.Id(), err)
			if err := client.SendMessage(messages.JoinRejected{Reason: "spawn failed"}); err != nil {
				log.Printf("[server] failed to send join rejection: %v", err)
			}
			return
		}

		s.mu.Lock()
		s.clientUnits[client] = unit.NetworkID()
		s.mu.Unlock()

		if err := client.SendMessage(messages.JoinAccepted{
			NetworkID:  unit.NetworkID(),
			ServerName: s.name,
			TickRate:   s.loop.tickRate,
		}); err != nil {
			log.Printf("[server] failed to send join acceptance: %v", err)
		}

		log.Printf("[server] player %q joined as unit %d", req.PlayerName, unit.NetworkID())
	})
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[server] client %s disconnected", client.Id())
	}

	s.mu.Lock()
	id, exists := s.clientUnits[client]
	if exists {
		delete(s.clientUnits, client)
	}
	s.mu.Unlock()

	if exists {
		s.Enqueue(func() { s.DespawnUnit(id) })
	}
}

// Enqueue schedules fn to run on the next game loop tick. This is the only
// way router goroutines may touch the world.
func (s *Server) Enqueue(fn func()) {
	s.mu.Lock()
	s.commands = append(s.commands, fn)
	s.mu.Unlock()
}

// ProcessCommands drains and runs all queued commands. Called once per tick
// on the loop goroutine.
func (s *Server) ProcessCommands() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, fn := range cmds {
		fn()
	}
}

// SpawnUnit creates a damageable unit in the replicated world and marks it
// for network sync. Loop goroutine only.
func (s *Server) SpawnUnit(kind string, maxHealth, x, y, z float64) (*Damageable, error) {
	entity := s.world.Create(
		netcomponents.NetPosition,
		netcomponents.NetHealth,
		netcomponents.NetUnit,
	)

	entry := s.world.Entry(entity)
	netcomponents.NetPosition.Set(entry, &netcomponents.NetPositionData{X: x, Y: y, Z: z})
	netcomponents.NetUnit.Set(entry, &netcomponents.NetUnitData{
		Kind:      kind,
		MaxHealth: maxHealth,
	})

	err := srvsync.NetworkSync(s.world, &entity,
		srvsync.WithInterp(netcomponents.NetPosition),
		netcomponents.NetHealth,
		netcomponents.NetUnit,
	)
	if err != nil {
		s.world.Remove(entity)
		return nil, err
	}

	nid := esync.GetNetworkId(entry)
	if nid == nil {
		s.world.Remove(entity)
		return nil, errNoNetworkID
	}

	unit := NewDamageable(s.world, entity, *nid, maxHealth, s.events)
	s.damageables[*nid] = unit

	log.Printf("[server] spawned %s unit %d (hp %.0f)", kind, *nid, maxHealth)
	return unit, nil
}

// SpawnDummies populates the world with target dummies so there is
// something to shoot at before any wave logic exists.
func (s *Server) SpawnDummies(count int) {
	s.Enqueue(func() {
		for i := 0; i < count; i++ {
			x := float64(i)*DummySpacing - float64(count-1)*DummySpacing/2
			if _, err := s.SpawnUnit(netconfig.UnitDummy, DummyMaxHealth, x, 0, DummyLineZ); err != nil {
				log.Printf("[server] failed to spawn dummy: %v", err)
			}
		}
	})
}

// RequestDamage is the request-to-authority entry point. Called directly by
// server-side systems, or on behalf of a client via DamageRequest. Unknown
// or already-removed targets are a silent no-op. Loop goroutine only.
func (s *Server) RequestDamage(target esync.NetworkId, amount float64) {
	unit, ok := s.damageables[target]
	if !ok {
		log.Printf("[server] damage request for unknown unit %d ignored", target)
		return
	}
	unit.ApplyDamage(amount)
}

// RequestHeal mirrors RequestDamage for healing.
func (s *Server) RequestHeal(target esync.NetworkId, amount float64) {
	unit, ok := s.damageables[target]
	if !ok {
		log.Printf("[server] heal request for unknown unit %d ignored", target)
		return
	}
	unit.Heal(amount)
}

// DespawnUnit removes a unit immediately, skipping the death grace period.
// Used for disconnects. Loop goroutine only.
func (s *Server) DespawnUnit(id esync.NetworkId) {
	unit, ok := s.damageables[id]
	if !ok {
		return
	}
	delete(s.damageables, id)
	unit.Despawn()
}

// advanceDespawns ticks every scheduled teardown and drops handles for units
// that have left the world.
func (s *Server) advanceDespawns() {
	for id, unit := range s.damageables {
		if unit.TickDespawn() {
			delete(s.damageables, id)
		}
	}
}

// Unit returns the authority handle for a unit, or nil if it does not exist
// (never spawned, or already removed).
func (s *Server) Unit(id esync.NetworkId) *Damageable {
	return s.damageables[id]
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of connected players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clientUnits)
}
