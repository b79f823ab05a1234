package master

import (
	"testing"
	"time"
)

func newTestRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	r := NewRegistry(ttl)
	t.Cleanup(r.Stop)
	return r
}

func TestRegisterAndList(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	id := r.Register(ServerInfo{Name: "alpha", Address: "localhost:7373", MaxPlayers: 8})
	if id == "" {
		t.Fatal("expected a non-empty server id")
	}

	servers := r.List()
	if len(servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(servers))
	}
	if servers[0].ID != id || servers[0].Name != "alpha" {
		t.Fatalf("unexpected listing: %+v", servers[0])
	}
}

func TestHeartbeatUpdatesPlayerCount(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	id := r.Register(ServerInfo{Name: "alpha", Address: "localhost:7373"})

	if !r.Heartbeat(id, 5) {
		t.Fatal("heartbeat for a known server failed")
	}
	if servers := r.List(); servers[0].Players != 5 {
		t.Fatalf("expected 5 players after heartbeat, got %d", servers[0].Players)
	}
}

func TestHeartbeatUnknownServer(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	if r.Heartbeat("deadbeef", 1) {
		t.Fatal("heartbeat for an unknown id should fail")
	}
}

func TestExpireDropsStaleServers(t *testing.T) {
	r := newTestRegistry(t, 0)

	r.Register(ServerInfo{Name: "alpha", Address: "localhost:7373"})
	r.expire()

	if servers := r.List(); len(servers) != 0 {
		t.Fatalf("expected stale server to expire, got %d listed", len(servers))
	}
}
