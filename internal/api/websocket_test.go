package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/infrastructure/config"
	"github.com/nerrad567/storefront-core/internal/infrastructure/logging"
)

func testHub() *Hub {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	return NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)
}

func TestTicketStore_SingleUse(t *testing.T) {
	ts := newTicketStore()
	identity := auth.Identity{ID: "usr-alice", Role: auth.RoleUser}

	ticket := ts.issue(identity)
	if ticket == "" {
		t.Fatal("issue() returned empty ticket")
	}

	got, ok := ts.consume(ticket)
	if !ok {
		t.Fatal("consume() should accept a fresh ticket")
	}
	if got.ID != "usr-alice" {
		t.Errorf("identity.ID = %q, want usr-alice", got.ID)
	}

	// Second use fails.
	if _, ok := ts.consume(ticket); ok {
		t.Error("consume() should reject an already-used ticket")
	}

	// Unknown tickets fail.
	if _, ok := ts.consume("no-such-ticket"); ok {
		t.Error("consume() should reject unknown tickets")
	}
}

func TestTicketStore_Expiry(t *testing.T) {
	ts := newTicketStore()
	ticket := ts.issue(auth.Identity{ID: "usr-alice", Role: auth.RoleUser})

	// Force the ticket into the past.
	ts.mu.Lock()
	entry := ts.tickets[ticket]
	entry.expiresAt = time.Now().Add(-time.Second)
	ts.tickets[ticket] = entry
	ts.mu.Unlock()

	if _, ok := ts.consume(ticket); ok {
		t.Error("consume() should reject expired tickets")
	}
}

func TestTicketStore_Clean(t *testing.T) {
	ts := newTicketStore()
	stale := ts.issue(auth.Identity{ID: "usr-old"})
	fresh := ts.issue(auth.Identity{ID: "usr-new"})

	ts.mu.Lock()
	entry := ts.tickets[stale]
	entry.expiresAt = time.Now().Add(-time.Second)
	ts.tickets[stale] = entry
	ts.mu.Unlock()

	ts.clean()

	ts.mu.Lock()
	_, staleExists := ts.tickets[stale]
	_, freshExists := ts.tickets[fresh]
	ts.mu.Unlock()

	if staleExists {
		t.Error("clean() should remove expired tickets")
	}
	if !freshExists {
		t.Error("clean() should keep live tickets")
	}
}

func TestHub_BroadcastRespectsSubscriptions(t *testing.T) {
	hub := testHub()

	subscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 4),
		subscriptions: map[string]struct{}{eventProductCreated: {}},
		userID:        "usr-a",
	}
	unsubscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 4),
		subscriptions: map[string]struct{}{},
		userID:        "usr-b",
	}
	hub.Register(subscribed)
	hub.Register(unsubscribed)

	hub.Broadcast(eventProductCreated, map[string]any{"id": "prd-001"})

	select {
	case data := <-subscribed.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshalling broadcast: %v", err)
		}
		if msg.Type != WSTypeEvent || msg.EventType != eventProductCreated {
			t.Errorf("message = %+v, want product.created event", msg)
		}
	default:
		t.Fatal("subscribed client should receive the broadcast")
	}

	select {
	case <-unsubscribed.send:
		t.Error("unsubscribed client should not receive the broadcast")
	default:
	}

	if hub.ClientCount() != 2 {
		t.Errorf("ClientCount() = %d, want 2", hub.ClientCount())
	}

	hub.Unregister(subscribed)
	hub.Unregister(unsubscribed)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() after unregister = %d, want 0", hub.ClientCount())
	}
}

func TestHub_BroadcastRacingDisconnect(t *testing.T) {
	hub := testHub()

	clients := make([]*WSClient, 0, 200)
	for i := 0; i < 200; i++ {
		c := &WSClient{
			hub:           hub,
			send:          make(chan []byte, 1),
			subscriptions: map[string]struct{}{eventProductCreated: {}},
			userID:        "usr-race",
		}
		hub.Register(c)
		clients = append(clients, c)
	}

	// Broadcast concurrently with per-client disconnects so sends land on
	// channels closed after the snapshot. Must not panic.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			hub.Broadcast(eventProductCreated, map[string]any{"seq": i})
		}
	}()
	for _, c := range clients {
		hub.Unregister(c)
	}
	<-done

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}

func TestWebSocketRoute_RequiresTicket(t *testing.T) {
	_, router, _ := testServer(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/ws", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ticketless upgrade returned %d, want 401", rec.Code)
	}
	if env.Success {
		t.Error("envelope should report failure")
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/ws?ticket=bogus", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus ticket returned %d, want 401", rec.Code)
	}
}
