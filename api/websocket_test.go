package api

import (
	"testing"
	"time"
)

func waitForClientCount(t *testing.T, hub *WSHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSlowClientDisconnectKeepsSendOpen(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := newWSClient(hub)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	// Fill the buffer so the next broadcast sees a slow client.
	for i := 0; i < cap(client.send); i++ {
		client.send <- WSMessage{Type: "noop"}
	}
	hub.Broadcast(WSMessage{Type: "snapshot_updated"})
	waitForClientCount(t, hub, 0)

	select {
	case <-client.done:
	case <-time.After(2 * time.Second):
		t.Fatal("slow client was removed but never signalled to shut down")
	}

	// A reader queuing a reply while the hub disconnects the client must
	// be refused, not panic on a closed channel.
	if client.trySend(WSMessage{Type: "pong"}) {
		t.Error("trySend should refuse after shutdown")
	}
}

func TestHubUnregisterSignalsShutdown(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := newWSClient(hub)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	if !client.trySend(WSMessage{Type: "subscribed"}) {
		t.Error("trySend should queue while the client is registered")
	}

	hub.Unregister(client)
	waitForClientCount(t, hub, 0)

	select {
	case <-client.done:
	case <-time.After(2 * time.Second):
		t.Fatal("unregister did not signal shutdown")
	}
	if client.trySend(WSMessage{Type: "pong"}) {
		t.Error("trySend should refuse after unregister")
	}

	// Unregistering again must be harmless.
	hub.Unregister(client)
	client.shutdown()
}
