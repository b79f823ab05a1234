package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/holdfast/rampart-mp/server/core"
	"github.com/holdfast/rampart-mp/shared/netconfig"
	"github.com/holdfast/rampart-mp/shared/protocol"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", netconfig.DefaultTickRate, "Server tick rate (updates per second)")
	name := flag.String("name", "Rampart Server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	dummies := flag.Int("dummies", 4, "Number of target dummies to spawn")
	despawnDelay := flag.Int("despawndelay", netconfig.DefaultDespawnDelayTicks, "Ticks between death and removal")
	masterURL := flag.String("master", "", "Master server URL (empty = no registration)")
	address := flag.String("address", "", "Public address to advertise to the master")
	maxPlayers := flag.Int("maxplayers", 8, "Advertised player cap")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	core.DespawnDelayTicks = *despawnDelay

	server := core.NewServer(*tickRate, *name, *version)
	server.SpawnDummies(*dummies)

	var registration *core.Registration
	if *masterURL != "" {
		advertised := *address
		if advertised == "" {
			advertised = fmt.Sprintf("localhost:%d", *port)
		}
		registration = core.NewRegistration(*masterURL, *name, advertised, *version, *maxPlayers, server)
		registration.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		if registration != nil {
			registration.Stop()
		}
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting Rampart server %q on port %d (tick rate: %d/s, version: %s)",
		*name, *port, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
