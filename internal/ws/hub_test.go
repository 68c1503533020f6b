package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn spins up a server that registers the upgraded connection with
// the hub and returns the client side once registration is done.
func dialTestConn(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	ready := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		hub.AddConnection(sessionID, conn)
		close(ready)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	<-ready
	return client
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub()

	first := dialTestConn(t, hub, "session-1")
	second := dialTestConn(t, hub, "session-1")
	other := dialTestConn(t, hub, "session-2")

	hub.Broadcast("session-1", Message{Type: "state", Data: map[string]int{"score": 1}})

	want := `{"type":"state","data":{"score":1}}`
	assert.JSONEq(t, want, readFrame(t, first))
	assert.JSONEq(t, want, readFrame(t, second))

	// The other session hears nothing.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "session-2 must not receive session-1 frames")
}

func TestHub_BroadcastToEmptySession(t *testing.T) {
	hub := NewHub()
	hub.Broadcast("nobody-home", Message{Type: "state", Data: "x"})
}

func TestHub_DropsStalledConnections(t *testing.T) {
	prev := writeWait
	writeWait = 200 * time.Millisecond
	t.Cleanup(func() { writeWait = prev })

	hub := NewHub()

	// A subscriber that never reads. Once the socket buffers fill, writes to
	// it only return when the deadline trips.
	dialTestConn(t, hub, "session-1")

	// Far more data than the socket buffers can absorb, so a write is
	// guaranteed to block and trip the deadline.
	payload := strings.Repeat("x", 1<<20)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Broadcast("session-1", Message{Type: "state", Data: payload})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcasts wedged on a client that never reads")
	}

	hub.mu.RLock()
	_, stillThere := hub.sessions["session-1"]
	hub.mu.RUnlock()
	assert.False(t, stillThere, "a stalled connection is dropped, not kept")

	// The hub keeps serving other sessions afterwards.
	healthy := dialTestConn(t, hub, "session-2")
	hub.Broadcast("session-2", Message{Type: "state", Data: "ok"})
	assert.JSONEq(t, `{"type":"state","data":"ok"}`, readFrame(t, healthy))
}

func TestHub_RemoveConnectionClosesIt(t *testing.T) {
	hub := NewHub()
	client := dialTestConn(t, hub, "session-1")

	// RemoveConnection needs the server-side conn; grab it from the registry.
	hub.mu.RLock()
	var serverConn *websocket.Conn
	for conn := range hub.sessions["session-1"] {
		serverConn = conn
	}
	hub.mu.RUnlock()
	require.NotNil(t, serverConn)

	hub.RemoveConnection("session-1", serverConn)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err, "the client side must see the close")

	hub.mu.RLock()
	_, stillThere := hub.sessions["session-1"]
	hub.mu.RUnlock()
	assert.False(t, stillThere, "empty sessions are dropped from the registry")
}
