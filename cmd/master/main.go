package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/holdfast/rampart-mp/master"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	flag.Parse()

	reg := master.NewRegistry(*ttl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /servers", master.ListServers(reg))
	mux.HandleFunc("POST /servers/register", master.RegisterServer(reg))
	mux.HandleFunc("POST /servers/heartbeat", master.Heartbeat(reg))
	mux.HandleFunc("GET /health", master.Health())

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[master] starting on %s (TTL=%s)", addr, *ttl)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[master] fatal: %v", err)
	}
}
