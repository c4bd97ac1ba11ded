package sessionws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, client *Client) models.SessionEvent {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		var event models.SessionEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.SessionEvent{}
	}
}

func TestHubDeliversOnlyToAssociation(t *testing.T) {
	hub := startHub(t)
	mine := NewClient(hub, nil, 1)
	other := NewClient(hub, nil, 2)
	hub.Register(mine)
	hub.Register(other)

	hub.Publish(models.SessionEvent{Type: models.EventScoreRecorded, AssociationID: 1, SessionID: 9})

	event := receive(t, mine)
	assert.Equal(t, models.EventScoreRecorded, event.Type)
	assert.Equal(t, int64(9), event.SessionID)

	select {
	case <-other.send:
		t.Fatal("event leaked to another association")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := startHub(t)
	slow := NewClient(hub, nil, 1)
	hub.Register(slow)

	for i := 0; i < clientBuffer+1; i++ {
		hub.Publish(models.SessionEvent{Type: models.EventScoreRecorded, AssociationID: 1})
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("slow client was never disconnected")
		}
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Publish(models.SessionEvent{Type: models.EventWaveCloned, AssociationID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestHubStopsBlockingAfterShutdown(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	connected := NewClient(hub, nil, 1)
	hub.Register(connected)
	cancel()
	<-stopped

	_, ok := <-connected.send
	assert.False(t, ok, "running client should be closed on shutdown")

	late := NewClient(hub, nil, 1)
	returned := make(chan struct{})
	go func() {
		hub.Unregister(connected)
		hub.Register(late)
		hub.Unregister(late)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Register or Unregister blocked after the hub stopped")
	}
	_, ok = <-late.send
	assert.False(t, ok, "late client should be released")
}
