package master

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRegisterHeartbeatListRoundTrip(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)

	register := RegisterServer(reg)
	heartbeat := Heartbeat(reg)
	list := ListServers(reg)

	w := httptest.NewRecorder()
	register(w, httptest.NewRequest(http.MethodPost, "/servers/register",
		strings.NewReader(`{"name":"alpha","address":"localhost:7373","maxPlayers":8}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d, want %d", w.Code, http.StatusCreated)
	}

	var created registerResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	w = httptest.NewRecorder()
	heartbeat(w, httptest.NewRequest(http.MethodPost, "/servers/heartbeat",
		strings.NewReader(`{"id":"`+created.ID+`","players":3}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("heartbeat returned %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	list(w, httptest.NewRequest(http.MethodGet, "/servers", nil))

	var servers []ServerInfo
	if err := json.NewDecoder(w.Body).Decode(&servers); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(servers) != 1 || servers[0].Players != 3 {
		t.Fatalf("unexpected listing: %+v", servers)
	}
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)
	register := RegisterServer(reg)

	w := httptest.NewRecorder()
	register(w, httptest.NewRequest(http.MethodPost, "/servers/register", strings.NewReader("not json")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid json returned %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = httptest.NewRecorder()
	register(w, httptest.NewRequest(http.MethodPost, "/servers/register", strings.NewReader(`{"name":"x"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing address returned %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHeartbeatUnknownServerReturns404(t *testing.T) {
	reg := newTestRegistry(t, time.Minute)
	heartbeat := Heartbeat(reg)

	w := httptest.NewRecorder()
	heartbeat(w, httptest.NewRequest(http.MethodPost, "/servers/heartbeat",
		strings.NewReader(`{"id":"deadbeef","players":1}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown server returned %d, want %d", w.Code, http.StatusNotFound)
	}
}
