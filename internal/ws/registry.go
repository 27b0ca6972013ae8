// Package ws fans incident change events out to connected clients.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/opsdeck/incident-intel/internal/metrics"
)

const writeTimeout = 5 * time.Second

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send func(ctx context.Context, payload map[string]any) error
}

// Registry tracks live connections. Connect/disconnect may race with a
// broadcast; broadcasts iterate a snapshot of the membership so a concurrent
// disconnect never invalidates the pass.
type Registry struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*client),
		logger:  logger,
	}
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Handle upgrades the request, registers the connection, confirms it, and then
// echoes an acknowledgment for every inbound client message until the peer
// goes away. Serves both the canonical and the legacy endpoint.
func (r *Registry) Handle(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{})
	if err != nil {
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: func(ctx context.Context, payload map[string]any) error {
			return wsjson.Write(ctx, conn, payload)
		},
	}
	r.add(c)
	defer r.remove(c.id)

	ctx := req.Context()

	confirm := map[string]any{
		"type":      "connected",
		"message":   "Connected to incident updates",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.write(ctx, c, confirm); err != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
		return
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		}
		ack := map[string]any{
			"type":      "ack",
			"message":   string(data),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if err := r.write(ctx, c, ack); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
			return
		}
	}
}

// Broadcast delivers event to every registered connection. Failed connections
// are pruned only after the full pass, so an early failure never skips a later
// client.
func (r *Registry) Broadcast(ctx context.Context, event map[string]any) {
	r.mu.Lock()
	snapshot := make([]*client, 0, len(r.clients))
	for _, c := range r.clients {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	var failed []uuid.UUID
	for _, c := range snapshot {
		if err := r.write(ctx, c, event); err != nil {
			metrics.BroadcastsTotal.WithLabelValues("failed").Inc()
			failed = append(failed, c.id)
			continue
		}
		metrics.BroadcastsTotal.WithLabelValues("delivered").Inc()
	}

	for _, id := range failed {
		r.remove(id)
	}
	if len(failed) > 0 {
		r.logger.Info("pruned dead connections after broadcast", "count", len(failed))
	}
}

func (r *Registry) write(ctx context.Context, c *client, payload map[string]any) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.send(writeCtx, payload)
}

func (r *Registry) add(c *client) {
	r.mu.Lock()
	r.clients[c.id] = c
	n := len(r.clients)
	r.mu.Unlock()
	metrics.ActiveConnections.Set(float64(n))
}

func (r *Registry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.clients, id)
	n := len(r.clients)
	r.mu.Unlock()
	metrics.ActiveConnections.Set(float64(n))
}
