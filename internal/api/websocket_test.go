package api

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/game"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(log.New(io.Discard))
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.WebSocketHandler))
	t.Cleanup(srv.Close)
	return hub, srv
}

// dialHub connects a client for the session and consumes the welcome frame,
// which only arrives once the hub has registered the client.
func dialHub(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?sessionId=" + sessionID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "welcome", msg.Type)
	require.Equal(t, sessionID, msg.SessionID)
	return conn
}

func TestHubBroadcastsBySession(t *testing.T) {
	hub, srv := newTestHub(t)

	watcher := dialHub(t, srv, "session-1")
	bystander := dialHub(t, srv, "session-2")

	hub.BroadcastSession("session-1", game.Snapshot{
		Phase:  game.PlayerTurn.String(),
		Budget: 900,
		Bet:    100,
	})

	var msg Message
	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, watcher.ReadJSON(&msg))
	assert.Equal(t, "stateUpdate", msg.Type)
	assert.Equal(t, "session-1", msg.SessionID)

	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, game.PlayerTurn.String(), data["phase"])
	assert.Equal(t, float64(900), data["budget"])
	assert.Equal(t, float64(100), data["bet"])

	// The other session hears nothing.
	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray Message
	err := bystander.ReadJSON(&stray)
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestHubFansOutToEverySessionClient(t *testing.T) {
	hub, srv := newTestHub(t)

	first := dialHub(t, srv, "session-1")
	second := dialHub(t, srv, "session-1")

	hub.BroadcastSession("session-1", game.Snapshot{Phase: game.Resolved.String()})

	for _, conn := range []*websocket.Conn{first, second} {
		var msg Message
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "stateUpdate", msg.Type)
	}
}

func TestHubBroadcastAfterDisconnect(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dialHub(t, srv, "session-1")
	require.NoError(t, conn.Close())

	// Unregistration lands through the hub goroutine; broadcasting around
	// it must neither block nor panic, whichever side wins.
	for i := 0; i < 10; i++ {
		hub.BroadcastSession("session-1", game.Snapshot{Phase: game.Resolved.String()})
	}
}
