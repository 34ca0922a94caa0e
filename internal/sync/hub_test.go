package sync

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHubServer(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zaptest.NewLogger(t))
	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return hub, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// welcome frame
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "welcome")
	return conn
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub, url := newHubServer(t)
	a := dial(t, url)
	defer a.Close()
	b := dial(t, url)
	defer b.Close()

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 2 }, time.Second, 10*time.Millisecond)

	hub.BroadcastJSON(NewEvent(EventVolumeAdd, "s1", "v1"))

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev CollectionEvent
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, EventVolumeAdd, ev.Type)
		assert.Equal(t, "s1", ev.SeriesID)
		assert.Equal(t, "v1", ev.VolumeID)
		assert.False(t, ev.At.IsZero())
	}
}

func TestHub_ClientDisconnectIsRemoved(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Stats().WSClients == 0 }, time.Second, 10*time.Millisecond)

	// no clients: must not panic or block
	hub.BroadcastJSON(NewEvent(EventSeriesDelete, "s1", ""))
}

func TestHub_CloseDropsAll(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Stats().WSClients)
}

func TestHub_UnmarshalableValueIsIgnored(t *testing.T) {
	hub := NewHub(nil)
	hub.BroadcastJSON(make(chan int))
	assert.Equal(t, 0, hub.Stats().WSClients)
}
