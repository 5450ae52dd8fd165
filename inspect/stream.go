package inspect

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arborui/locator/events"
	"github.com/arborui/locator/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // inspection surface is dev tooling
	},
}

// Hub fans locator events out to connected WebSocket clients.
type Hub struct {
	log *logging.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub(log *logging.Logger) *Hub {
	if log == nil {
		log = logging.NewNop()
	}
	return &Hub{
		log:   log,
		conns: make(map[*websocket.Conn]bool),
	}
}

// Emit implements events.Sink: every connected client receives the event
// as JSON. Clients that fail to write are dropped.
func (h *Hub) Emit(e events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(e); err != nil {
			h.log.Debug("stream client dropped", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// HandleStream upgrades the request and keeps the connection subscribed
// until the client goes away. Inbound messages are ignored except ping.
func (h *Hub) HandleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("stream upgrade failed", zap.Error(err))
		return
	}

	conn.WriteJSON(map[string]any{
		"type":    "system",
		"message": "connected to locator event stream",
	})

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if t, _ := msg["type"].(string); t == "ping" {
			h.mu.Lock()
			conn.WriteJSON(map[string]any{"type": "pong"})
			h.mu.Unlock()
		}
	}
}
