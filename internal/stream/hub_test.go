package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_Broadcast(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(TypeStatus, map[string]string{"state": "ok"}))

	msg := readMessage(t, conn)
	assert.Equal(t, TypeStatus, msg.Type)
	assert.Equal(t, map[string]interface{}{"state": "ok"}, msg.Payload)
}

func TestHub_ReplaysLatestSnapshot(t *testing.T) {
	hub, url := startHub(t)

	require.NoError(t, hub.Broadcast(TypeSnapshot, []string{"AAPL", "MSFT"}))

	conn := dial(t, url)
	msg := readMessage(t, conn)
	assert.Equal(t, TypeSnapshot, msg.Type)
	assert.Equal(t, []interface{}{"AAPL", "MSFT"}, msg.Payload)
}

func TestHub_Disconnect(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastMarshalError(t *testing.T) {
	hub := NewHub(nil, nil)
	err := hub.Broadcast(TypeStatus, make(chan int))
	assert.Error(t, err)
}
