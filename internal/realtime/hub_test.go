package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestBroadcastStreamReachesSubscriber(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve("user-1", []string{StreamSecurityAlerts}, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(StreamSecurityAlerts) == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastStream(StreamSecurityAlerts, Message{
		Event: "alert.created",
		Data:  map[string]any{"alert_id": "01ARZ3NDEKTSV4RRFFQ69G5FAV"},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, StreamSecurityAlerts, msg.Stream)
	require.Equal(t, "alert.created", msg.Event)
}

func TestBroadcastStreamIgnoresUnknownStream(t *testing.T) {
	hub := NewHub()

	// Should be a no-op without panicking.
	hub.BroadcastStream("", Message{Event: "noop"})
	hub.BroadcastStream(StreamDoorStatus, Message{Event: "noop"})

	require.Zero(t, hub.SubscriberCount(StreamDoorStatus))
}

func TestUnregisterOnClose(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve("user-1", []string{StreamSecurityAlerts}, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(StreamSecurityAlerts) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(StreamSecurityAlerts) == 0
	}, time.Second, 10*time.Millisecond)
}
