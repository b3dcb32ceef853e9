// Package realtime fans cart lifecycle events out to every connected
// dashboard and kiosk over WebSocket. Delivery is broadcast-to-all with no
// acknowledgment; clients that cannot keep up are disconnected instead of
// back-pressuring the publisher.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed over the socket.
const (
	EventQRUpdated              = "qr-updated"
	EventQRScanned              = "qr-scanned"
	EventNewCartForVerification = "new-cart-for-verification"
	EventCartVerificationUpdate = "cart-verification-update"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
)

// Event is the wire frame for every broadcast.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Broadcaster is what the controllers depend on; the Hub implements it.
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// Hub tracks connected WebSocket clients and replicates every event to all
// of them.
type Hub struct {
	upgrader  websocket.Upgrader
	clients   map[*client]struct{}
	clientsMu sync.RWMutex
}

type client struct {
	conn   *websocket.Conn
	send   chan Event
	mu     sync.Mutex
	closed bool
}

// NewHub builds a hub accepting upgrades from the given origin; "*" allows
// any origin.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Broadcast sends the event to every connected client. Full send buffers
// mean the client has stalled; it gets dropped so one dead dashboard cannot
// wedge the rest.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	event := Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for c := range h.clients {
		if !c.trySend(event) {
			zap.L().Warn("Dropping stalled websocket client", zap.String("event", eventType))
			go h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.clientsMu.Lock()
	delete(h.clients, c)
	h.clientsMu.Unlock()
	c.close()
}

// ClientCount reports the number of connected sockets.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection. The initial
// events (the current QR code, when one is live) are queued before anything
// broadcast after the upgrade.
func (h *Hub) ServeWS(c *gin.Context, initial []Event) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}
	for _, event := range initial {
		cl.send <- event
	}

	h.clientsMu.Lock()
	h.clients[cl] = struct{}{}
	h.clientsMu.Unlock()

	go cl.writePump()
	go cl.readPump(h)
}

// Close disconnects every client, typically during shutdown.
func (h *Hub) Close() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; clients only listen. It exists to
// service pongs and notice closed connections.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, c)
		h.clientsMu.Unlock()
		c.close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

// trySend queues the event unless the client is closed or its buffer is
// full.
func (c *client) trySend(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
		c.conn.Close()
	}
}
