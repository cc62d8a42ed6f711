package observer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, v))
}

func TestHubStreamsEvents(t *testing.T) {
	hub := NewHub(Info{Scenario: "breach-drill", TickRate: 60}, log.New(io.Discard))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)

	var hello Hello
	readJSON(t, conn, &hello)
	assert.Equal(t, TypeHello, hello.Type)
	assert.Equal(t, ProtocolVersion, hello.ProtocolVersion)
	assert.Equal(t, "breach-drill", hello.Scenario)
	assert.Equal(t, 1, hub.Clients())

	hub.Publish(7, []combat.Event{
		combat.ModuleDestroyed{Module: 3, Structure: 1, At: structure.C(2, 4)},
		combat.StructureDepressurized{Structure: 1},
	})

	var first, second EventMsg
	readJSON(t, conn, &first)
	readJSON(t, conn, &second)

	assert.Equal(t, TypeEvent, first.Type)
	assert.Equal(t, uint64(7), first.Tick)
	assert.Equal(t, combat.KindModuleDestroyed, first.Kind)
	assert.Contains(t, first.Text, "destroyed")

	ev, err := combat.DecodeEvent(first.Kind, first.Data)
	require.NoError(t, err)
	assert.Equal(t, combat.ModuleDestroyed{Module: 3, Structure: 1, At: structure.C(2, 4)}, ev)
	assert.Equal(t, combat.KindStructureDepressurized, second.Kind)
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(Info{Scenario: "duel"}, log.New(io.Discard))
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	var hello Hello
	readJSON(t, conn, &hello)
	require.Equal(t, 1, hub.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(Info{}, log.New(io.Discard))
	hub.Publish(1, []combat.Event{combat.StructureDepressurized{Structure: 1}})
	assert.Zero(t, hub.Dropped())
}

func TestHubRejectsRemote(t *testing.T) {
	hub := NewHub(Info{}, log.New(io.Discard))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.RemoteAddr = "203.0.113.9:4242"
	rec := httptest.NewRecorder()
	hub.Handler()(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr     string
		expected bool
	}{
		{"127.0.0.1:1234", true},
		{"[::1]:80", true},
		{"::1", true},
		{"10.1.2.3:80", false},
		{"not-an-ip", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, isLoopbackRemote(tc.addr), tc.addr)
	}
}
