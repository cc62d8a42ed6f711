// Package observer streams emitted events to WebSocket clients for debug
// tooling. Only loopback clients are accepted.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/hullbreach/internal/combat"
)

// ProtocolVersion is sent in the HELLO message.
const ProtocolVersion = 1

// Message types.
const (
	TypeHello = "HELLO"
	TypeEvent = "EVENT"
)

// Hello is the first message on every connection.
type Hello struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	Scenario        string `json:"scenario"`
	TickRate        int    `json:"tick_rate"`
}

// EventMsg carries one emitted event.
type EventMsg struct {
	Type string          `json:"type"`
	Tick uint64          `json:"tick"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
	Text string          `json:"text"`
}

// Info describes the run being observed.
type Info struct {
	Scenario string
	TickRate int
}

// Hub fans events out to connected observers. Slow clients lose messages
// rather than stalling the simulation.
type Hub struct {
	info   Info
	logger *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	dropped  atomic.Uint64

	mu      sync.Mutex
	clients map[uint64]chan []byte
}

// NewHub creates a hub for the given run.
func NewHub(info Info, logger *log.Logger) *Hub {
	return &Hub{
		info:   info,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Clients returns the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Publish sends the events of one tick to every observer without blocking.
func (h *Hub) Publish(tick uint64, events []combat.Event) {
	if len(events) == 0 {
		return
	}

	msgs := make([][]byte, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			h.logger.Warn("observer: marshal event", "kind", e.Kind(), "err", err)
			continue
		}
		b, err := json.Marshal(EventMsg{
			Type: TypeEvent,
			Tick: tick,
			Kind: e.Kind(),
			Data: data,
			Text: combat.Describe(e),
		})
		if err != nil {
			continue
		}
		msgs = append(msgs, b)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.clients {
		for _, b := range msgs {
			select {
			case out <- b:
			default:
				h.dropped.Add(1)
			}
		}
	}
}

func (h *Hub) register() (uint64, chan []byte) {
	id := h.nextID.Add(1)
	out := make(chan []byte, 1024)
	h.mu.Lock()
	h.clients[id] = out
	h.mu.Unlock()
	return id, out
}

func (h *Hub) unregister(id uint64) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// Handler upgrades loopback requests to an event stream.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.register()
		defer h.unregister(id)
		h.logger.Debug("observer connected", "id", id, "remote", r.RemoteAddr)

		hello, _ := json.Marshal(Hello{
			Type:            TypeHello,
			ProtocolVersion: ProtocolVersion,
			Scenario:        h.info.Scenario,
			TickRate:        h.info.TickRate,
		})
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Reader goroutine: observers send nothing, but reading surfaces the close.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
					time.Now().Add(time.Second))
				h.logger.Debug("observer disconnected", "id", id)
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/events", h.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("observer listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
