// Package realtime pushes tracker events (badge unlocks, level ups,
// completed challenges) to connected websocket clients.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lg/nutrition-tracker-api/tracker"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected client. It implements
// tracker.EventSink; Publish never blocks on a slow client.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub returns a hub accepting connections from any origin when
// allowedOrigins is empty or contains "*".
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 || allowed["*"] {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends e to every client. Clients whose buffer is full miss the event.
func (h *Hub) Publish(e tracker.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Printf("[Hub.Publish] marshal %s: %v", e.Kind, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("[Hub.Publish] dropping %s for slow client", e.Kind)
		}
	}
}

// ServeWS upgrades the request and streams events until the client goes away.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ServeWS] upgrade: %v", err)
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(cl)

	go h.writeLoop(cl)

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(cl)
			return
		}
	}
}

// writeLoop owns all writes to the connection: queued events and keepalive pings.
func (h *Hub) writeLoop(cl *client) {
	t := time.NewTicker(pingInterval)
	defer func() {
		t.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(cl)
				return
			}
		case <-t.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(cl)
				return
			}
		}
	}
}
