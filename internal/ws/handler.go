package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/HerbHall/netpanel/internal/collector"
	"github.com/HerbHall/netpanel/internal/event"
	"github.com/HerbHall/netpanel/pkg/plugin"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler streams host snapshots to WebSocket clients.
type Handler struct {
	hub            *Hub
	latest         func() *collector.Snapshot
	originPatterns []string
	logger         *zap.Logger
	unsubscribe    func()
}

var _ plugin.HTTPProvider = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes it to snapshot
// events on bus. latest, when non-nil, supplies the snapshot sent to a
// client right after it connects. originPatterns are host patterns
// accepted in the Origin header; "*" accepts any origin.
func NewHandler(bus plugin.Subscriber, latest func() *collector.Snapshot, originPatterns []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		hub:            NewHub(logger),
		latest:         latest,
		originPatterns: originPatterns,
		logger:         logger,
	}
	if bus != nil {
		h.unsubscribe = bus.Subscribe(event.TopicHostsSnapshot, h.onSnapshot)
		logger.Info("subscribed to host snapshots for WebSocket broadcasting")
	}
	return h
}

// Routes implements plugin.HTTPProvider.
func (h *Handler) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/ws/hosts", Handler: h.handleHostStream},
	}
}

// ClientCount returns the number of connected clients.
func (h *Handler) ClientCount() int {
	return h.hub.ClientCount()
}

// Close detaches the handler from the event bus.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// handleHostStream upgrades the connection to WebSocket and streams host
// snapshots until the client disconnects.
func (h *Handler) handleHostStream(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{OriginPatterns: h.originPatterns}
	for _, p := range h.originPatterns {
		if p == "*" {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
			break
		}
	}

	// The server's write deadline would cut long-lived streams.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(4096)

	client := &Client{
		conn:   conn,
		id:     uuid.New().String(),
		send:   make(chan Message, sendBuffer),
		logger: h.logger,
	}
	h.hub.Register(client)

	if h.latest != nil {
		if snap := h.latest(); snap != nil {
			client.send <- newSnapshotMessage(snap.ID, snap.GeneratedAt, snap.Hosts)
		}
	}

	// Run read and write pumps. When either exits, clean up.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
		cancel()
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

func (h *Handler) onSnapshot(_ context.Context, e plugin.Event) {
	snap, ok := e.Payload.(*collector.Snapshot)
	if !ok {
		return
	}
	h.hub.Broadcast(newSnapshotMessage(snap.ID, snap.GeneratedAt, snap.Hosts))
}
