// The observer joins a server headlessly, mirrors the replicated world, and
// logs damage, death, and removal as it observes them. With -attack it also
// plays a minimal attacker, sending damage requests at the first dummy it
// sees, which exercises the full request-to-authority round trip.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/holdfast/rampart-mp/client"
	"github.com/holdfast/rampart-mp/event"
	"github.com/holdfast/rampart-mp/network"
	"github.com/holdfast/rampart-mp/shared/netconfig"
	"github.com/holdfast/rampart-mp/shared/protocol"
	"github.com/leap-fish/necs/esync"
)

func main() {
	address := flag.String("address", "localhost:7373", "Server address")
	name := flag.String("name", "observer", "Player name")
	version := flag.String("version", "", "Client version sent with the join request")
	attack := flag.Bool("attack", false, "Send damage requests at the first dummy seen")
	damage := flag.Float64("damage", 10, "Damage per attack request")
	interval := flag.Duration("interval", time.Second, "Delay between attack requests")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	events := event.NewDispatcher()
	replica := client.NewReplica(events)
	directory := client.NewDirectory(events)
	defer directory.Close()

	logged := subscribeLogging(events)
	defer func() {
		for _, sub := range logged {
			sub.Close()
		}
	}()

	netClient := network.NewClient()
	netClient.Connect(*address, *version, *name)

	var target esync.NetworkId
	targetSub := directory.WhenAvailable(netconfig.UnitDummy, func(id esync.NetworkId) {
		if target == 0 {
			target = id
			log.Printf("[observer] tracking dummy %d", id)
		}
	})
	defer targetSub.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	nextAttack := time.Now().Add(*interval)

	for {
		select {
		case <-sigChan:
			log.Println("[observer] shutting down")
			netClient.Disconnect()
			return
		case <-tick.C:
			if netClient.State() == network.StateError {
				log.Fatalf("[observer] connection failed: %v", netClient.LastError())
			}

			if snap := netClient.LatestSnapshot(); snap != nil {
				replica.ApplySnapshot(*snap)
			}

			if *attack && target != 0 && replica.Contains(target) && time.Now().After(nextAttack) {
				nextAttack = time.Now().Add(*interval)
				if err := netClient.RequestDamage(target, *damage); err != nil {
					log.Printf("[observer] damage request failed: %v", err)
				}
			}
		}
	}
}

func subscribeLogging(events *event.Dispatcher) []*event.Subscription {
	return []*event.Subscription{
		events.Subscribe(event.TypeUnitAvailable, func(e event.Event) {
			data := e.Data.(event.UnitAvailable)
			log.Printf("[observer] unit %d (%s) available", data.Unit, data.Kind)
		}),
		events.Subscribe(event.TypeDamaged, func(e event.Event) {
			data := e.Data.(event.Damaged)
			log.Printf("[observer] unit %d damaged for %.1f", data.Unit, data.Amount)
		}),
		events.Subscribe(event.TypeHealed, func(e event.Event) {
			data := e.Data.(event.Healed)
			log.Printf("[observer] unit %d healed for %.1f", data.Unit, data.Amount)
		}),
		events.Subscribe(event.TypeDied, func(e event.Event) {
			data := e.Data.(event.Died)
			log.Printf("[observer] unit %d died", data.Unit)
		}),
		events.Subscribe(event.TypeRemoved, func(e event.Event) {
			data := e.Data.(event.Removed)
			log.Printf("[observer] unit %d removed", data.Unit)
		}),
	}
}
